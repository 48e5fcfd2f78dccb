package models

import "time"

// StudentCategory groups students for teaching attention.
type StudentCategory string

// Possible student categories.
const (
	StudentCategoryNormal      StudentCategory = "normal"
	StudentCategorySlowLearner StudentCategory = "slow_learner"
)

// Student is an enrolled learner. Created either directly by an admin or by
// converting a pending Enrollment. The sum of PaymentHistory amounts is the
// authoritative amount paid; PaymentStatus is recomputed whenever a record is
// appended.
type Student struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	RegisterNumber   string          `json:"register_number"`
	RollNumber       string          `json:"roll_number,omitempty"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Class            string          `json:"class"`
	Batch            string          `json:"batch"`
	CourseName       string          `json:"course_name,omitempty"`
	Category         StudentCategory `json:"category"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	EnrollmentStatus string          `json:"enrollment_status"`
	PasswordHash     string          `json:"password_hash,omitempty"`
	IsFirstLogin     bool            `json:"is_first_login"`
	Role             UserRole        `json:"role"`
	PaymentHistory   []PaymentRecord `json:"payment_history,omitempty"`
	TotalFee         int64           `json:"total_fee,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Redacted returns a copy safe for API responses: the password hash is
// cleared so it only ever appears in the persisted shape. Handlers must
// serialize students through this, never directly.
func (s Student) Redacted() Student {
	s.PasswordHash = ""
	return s
}

// RedactStudents applies Redacted to a full roster.
func RedactStudents(students []Student) []Student {
	out := make([]Student, len(students))
	for i, s := range students {
		out[i] = s.Redacted()
	}
	return out
}

// AmountPaid sums the payment history.
func (s Student) AmountPaid() int64 {
	var total int64
	for _, p := range s.PaymentHistory {
		total += p.Amount
	}
	return total
}

// EntityID implements store.Entity.
func (s Student) EntityID() string { return s.ID }

// WithID implements store.Entity.
func (s Student) WithID(id string) Student {
	s.ID = id
	return s
}
