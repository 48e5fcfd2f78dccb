package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

// ConversionService turns a pending Enrollment into a Student. It is the only
// code path allowed to touch both stores, and it runs them as an ordered
// two-step: the student write must succeed before the enrollment delete runs,
// so a failure in between never loses the enrollment without having created
// the student.
type ConversionService struct {
	enrollments     enrollmentStore
	students        studentStore
	defaultPassword string
	logger          *zap.Logger
}

// NewConversionService constructs ConversionService. defaultPassword is
// assigned to converted students, who must change it on first login.
func NewConversionService(enrollments enrollmentStore, students studentStore, defaultPassword string, logger *zap.Logger) *ConversionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionService{
		enrollments:     enrollments,
		students:        students,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// Convert creates a Student from the enrollment identified by enrollmentID
// and removes the enrollment. Exactly one student is created and exactly one
// enrollment removed, or neither. Converting an id that no longer exists is a
// no-op reported as not found, which makes an accidental re-run harmless.
func (s *ConversionService) Convert(enrollmentID, registerNumber string) (models.Student, error) {
	registerNumber = strings.TrimSpace(registerNumber)
	if registerNumber == "" {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "register number is required")
	}

	enrollment, ok := s.enrollments.Find(enrollmentID)
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare student credentials")
	}

	draft := models.Student{
		RegisterNumber: registerNumber,
		Name:           enrollment.Name,
		Email:          enrollment.Email,
		Phone:          enrollment.Phone,
		Class:          enrollment.Class,
		Batch:          enrollment.Batch,
		CourseName:     enrollment.CourseName,
		Category:       models.StudentCategoryNormal,
		PaymentStatus:  PaymentStatusFor(enrollment.AmountPaid, enrollment.TotalFee),
		PasswordHash:   string(passwordHash),
		IsFirstLogin:   true,
		TotalFee:       enrollment.TotalFee,
	}
	if enrollment.AmountPaid > 0 {
		draft.PaymentHistory = []models.PaymentRecord{{
			ID:            uuid.NewString(),
			Date:          enrollmentPaymentDate(enrollment),
			Amount:        enrollment.AmountPaid,
			Mode:          enrollment.Mode,
			Type:          enrollment.PaymentType,
			TransactionID: enrollment.TransactionID,
			ReceiptID:     models.NewCode("RCP"),
		}}
	}

	student, err := s.students.Add(draft)
	if err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrConversionAborted.Code, appErrors.ErrConversionAborted.Status, "failed to create student, enrollment left untouched")
	}

	if !s.enrollments.Remove(enrollmentID) {
		// A concurrent writer removed it between the Find and here; the
		// student exists, so the conversion still counts as done once.
		s.logger.Warn("enrollment vanished during conversion",
			zap.String("enrollment_id", enrollmentID),
			zap.String("student_id", student.ID))
	}

	s.logger.Info("enrollment converted",
		zap.String("enrollment_id", enrollmentID),
		zap.String("student_id", student.ID),
		zap.String("register_number", registerNumber))
	return student, nil
}

// enrollmentPaymentDate keeps receipt dates stable when the enrollment did not
// record one.
func enrollmentPaymentDate(e models.Enrollment) time.Time {
	if e.Date.IsZero() {
		return time.Now().UTC()
	}
	return e.Date
}
