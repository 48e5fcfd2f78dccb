package models

import "time"

// PaymentStatus reflects how much of a declared fee has been settled.
type PaymentStatus string

// Possible payment statuses.
const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPending PaymentStatus = "pending"
)

// PaymentScheme is the fee arrangement chosen at enrollment time.
type PaymentScheme string

// Possible payment schemes.
const (
	PaymentSchemeFull        PaymentScheme = "full"
	PaymentSchemeInstallment PaymentScheme = "installment"
)

// PaymentChannel distinguishes online gateway payments from cash at the desk.
type PaymentChannel string

// Possible payment channels.
const (
	PaymentChannelOnline  PaymentChannel = "online"
	PaymentChannelOffline PaymentChannel = "offline"
)

// PaymentRecord is one immutable entry in a student's payment history.
// The ledger only ever appends these; it never rewrites them.
type PaymentRecord struct {
	ID            string         `json:"id"`
	Date          time.Time      `json:"date"`
	Amount        int64          `json:"amount"`
	Mode          PaymentChannel `json:"mode"`
	Type          PaymentScheme  `json:"type"`
	TransactionID string         `json:"transaction_id,omitempty"`
	ReceiptID     string         `json:"receipt_id"`
}

// TransactionSource identifies which store a ledger transaction was derived from.
type TransactionSource string

// Possible transaction sources.
const (
	TransactionSourceEnrollment TransactionSource = "enrollment"
	TransactionSourceStudent    TransactionSource = "student"
)

// Transaction is a ledger projection row. It is derived fresh on every read by
// joining the enrollment and student stores and is never persisted.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	StudentName string            `json:"student_name"`
	Amount      int64             `json:"amount"`
	Type        PaymentScheme     `json:"type"`
	Mode        PaymentChannel    `json:"mode"`
	Status      PaymentStatus     `json:"status"`
	Source      TransactionSource `json:"source"`
	RelatedID   string            `json:"related_id"`
	CourseName  string            `json:"course_name"`
	ReceiptID   string            `json:"receipt_id,omitempty"`
}

// LedgerStats summarises the projected transactions.
type LedgerStats struct {
	TotalCollected int64 `json:"total_collected"`
	TotalExpected  int64 `json:"total_expected"`
	TotalPending   int64 `json:"total_pending"`
}

// PaymentPlan is the outcome of the plan calculator: what is due now and what
// remains after the first payment.
type PaymentPlan struct {
	Scheme    PaymentScheme `json:"scheme"`
	TotalFee  int64         `json:"total_fee"`
	AmountDue int64         `json:"amount_due"`
	Remaining int64         `json:"remaining"`
}
