package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

type studentStore interface {
	List() []models.Student
	Find(id string) (models.Student, bool)
	Add(models.Student) (models.Student, error)
	Update(id string, mutate func(*models.Student)) (models.Student, bool)
	Remove(id string) bool
}

// CreateStudentRequest is the admin's manual-add payload. No fee is tracked
// for manually added students unless one is declared.
type CreateStudentRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	Class          string `json:"class" validate:"required"`
	Batch          string `json:"batch"`
	RegisterNumber string `json:"register_number" validate:"required"`
	RollNumber     string `json:"roll_number"`
	CourseName     string `json:"course_name"`
	TotalFee       int64  `json:"total_fee"`
	Password       string `json:"password" validate:"required,min=6"`
}

// StudentPaymentRequest appends one payment to a student's history.
type StudentPaymentRequest struct {
	Amount        int64                 `json:"amount" validate:"required,gt=0"`
	Mode          models.PaymentChannel `json:"mode" validate:"required,oneof=online offline"`
	Type          models.PaymentScheme  `json:"type" validate:"required,oneof=full installment"`
	TransactionID string                `json:"transaction_id"`
}

// StudentService manages the student roster and its payment histories.
type StudentService struct {
	students  studentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, validator: validate, logger: logger}
}

// List returns every student.
func (s *StudentService) List() []models.Student {
	return s.students.List()
}

// Get returns one student by id.
func (s *StudentService) Get(id string) (models.Student, error) {
	student, ok := s.students.Find(id)
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// Create adds a student directly, outside the enrollment flow.
func (s *StudentService) Create(req CreateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	for _, existing := range s.students.List() {
		if existing.RegisterNumber == req.RegisterNumber {
			return models.Student{}, appErrors.Clone(appErrors.ErrConflict, "register number already in use")
		}
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student, err := s.students.Add(models.Student{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Class:          req.Class,
		Batch:          req.Batch,
		RegisterNumber: req.RegisterNumber,
		RollNumber:     req.RollNumber,
		CourseName:     req.CourseName,
		TotalFee:       req.TotalFee,
		PasswordHash:   string(passwordHash),
		IsFirstLogin:   true,
	})
	if err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("register_number", student.RegisterNumber))
	return student, nil
}

// UpdateProfile patches mutable roster fields.
func (s *StudentService) UpdateProfile(id string, name, phone, batch, rollNumber string, category models.StudentCategory) (models.Student, error) {
	if category != "" && category != models.StudentCategoryNormal && category != models.StudentCategorySlowLearner {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "unknown student category")
	}
	student, ok := s.students.Update(id, func(st *models.Student) {
		if name != "" {
			st.Name = name
		}
		if phone != "" {
			st.Phone = phone
		}
		if batch != "" {
			st.Batch = batch
		}
		if rollNumber != "" {
			st.RollNumber = rollNumber
		}
		if category != "" {
			st.Category = category
		}
	})
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// RecordPayment appends an immutable PaymentRecord to the student's history
// and recomputes the payment status from the history total. History is never
// rewritten, only appended to.
func (s *StudentService) RecordPayment(id string, req StudentPaymentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	student, ok := s.students.Find(id)
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if student.TotalFee > 0 && student.AmountPaid()+req.Amount > student.TotalFee {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "payment exceeds remaining fee")
	}

	record := models.PaymentRecord{
		ID:            uuid.NewString(),
		Date:          time.Now().UTC(),
		Amount:        req.Amount,
		Mode:          req.Mode,
		Type:          req.Type,
		TransactionID: req.TransactionID,
		ReceiptID:     models.NewCode("RCP"),
	}

	updated, _ := s.students.Update(id, func(st *models.Student) {
		st.PaymentHistory = append(st.PaymentHistory, record)
		st.PaymentStatus = PaymentStatusFor(st.AmountPaid(), st.TotalFee)
	})
	s.logger.Info("student payment recorded",
		zap.String("student_id", id),
		zap.Int64("amount", req.Amount),
		zap.String("receipt_id", record.ReceiptID),
		zap.String("status", string(updated.PaymentStatus)))
	return updated, nil
}

// Remove deletes a student. Explicit admin action only; nothing removes
// students automatically.
func (s *StudentService) Remove(id string) error {
	if !s.students.Remove(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student removed", zap.String("student_id", id))
	return nil
}
