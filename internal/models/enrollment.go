package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusConfirmed EnrollmentStatus = "confirmed"
)

// Enrollment is a prospective student's intake record, held until an admin
// either rejects it or converts it into a Student. It never transitions back
// from confirmed to pending; conversion and rejection both remove it.
type Enrollment struct {
	ID             string           `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Class          string           `json:"class"`
	Batch          string           `json:"batch"`
	CourseName     string           `json:"course_name,omitempty"`
	RegisterNumber string           `json:"register_number,omitempty"`
	Mode           PaymentChannel   `json:"mode"`
	Status         EnrollmentStatus `json:"status"`
	Date           time.Time        `json:"date"`
	PaymentType    PaymentScheme    `json:"payment_type,omitempty"`
	AmountPaid     int64            `json:"amount_paid"`
	TotalFee       int64            `json:"total_fee,omitempty"`
	TransactionID  string           `json:"transaction_id,omitempty"`
	PaymentStatus  PaymentStatus    `json:"payment_status,omitempty"`
}

// EntityID implements store.Entity.
func (e Enrollment) EntityID() string { return e.ID }

// WithID implements store.Entity.
func (e Enrollment) WithID(id string) Enrollment {
	e.ID = id
	return e
}
