package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

type enrollmentStore interface {
	List() []models.Enrollment
	Find(id string) (models.Enrollment, bool)
	Add(models.Enrollment) (models.Enrollment, error)
	Update(id string, mutate func(*models.Enrollment)) (models.Enrollment, bool)
	Remove(id string) bool
}

// IntakeRequest is the public enrollment form payload.
type IntakeRequest struct {
	Name             string                `json:"name" validate:"required"`
	Phone            string                `json:"phone" validate:"required"`
	Email            string                `json:"email" validate:"required,email"`
	Class            string                `json:"class" validate:"required"`
	Batch            string                `json:"batch"`
	CourseName       string                `json:"course_name"`
	TotalFee         int64                 `json:"total_fee" validate:"required,gt=0"`
	Scheme           models.PaymentScheme  `json:"scheme" validate:"required,oneof=full installment"`
	FirstInstallment int64                 `json:"first_installment"`
	Channel          models.PaymentChannel `json:"channel" validate:"required,oneof=online offline"`
}

// IntakeResult is returned by Intake. For offline intake the enrollment is
// already persisted; for online intake only the computed plan is handed back
// and nothing is stored until the payment collaborator confirms success.
type IntakeResult struct {
	Enrollment *models.Enrollment `json:"enrollment,omitempty"`
	Plan       models.PaymentPlan `json:"plan"`
}

// RecordPaymentRequest adds a payment against a pending enrollment.
type RecordPaymentRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	TransactionID string `json:"transaction_id"`
}

// EnrollmentService manages the enrollment lifecycle: intake, payment updates
// and rejection. Conversion into a student is owned by ConversionService.
type EnrollmentService struct {
	enrollments enrollmentStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentStore, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, validator: validate, logger: logger}
}

// List returns every pending enrollment.
func (s *EnrollmentService) List() []models.Enrollment {
	return s.enrollments.List()
}

// Get returns one enrollment by id.
func (s *EnrollmentService) Get(id string) (models.Enrollment, error) {
	enrollment, ok := s.enrollments.Find(id)
	if !ok {
		return models.Enrollment{}, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return enrollment, nil
}

// Intake handles the public enrollment form. Validation is atomic: every
// check runs before any store mutation. Offline intake persists immediately
// with no payment recorded; online intake persists nothing. The caller hands
// the computed plan to the payment collaborator and calls
// ConfirmOnlinePayment on its success callback. A failed online payment
// therefore never leaves a partial record behind.
func (s *EnrollmentService) Intake(req IntakeRequest) (*IntakeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	plan, err := ComputePlan(req.TotalFee, req.Scheme, s.declaredFirst(req))
	if err != nil {
		return nil, err
	}

	if req.Channel == models.PaymentChannelOnline {
		return &IntakeResult{Plan: plan}, nil
	}

	enrollment, err := s.enrollments.Add(s.draft(req, plan))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("code", enrollment.Code),
		zap.String("channel", string(req.Channel)))
	return &IntakeResult{Enrollment: &enrollment, Plan: plan}, nil
}

// ConfirmOnlinePayment is the payment collaborator's success callback. It
// revalidates the original intake payload and creates the enrollment carrying
// the collected amount and transaction id.
func (s *EnrollmentService) ConfirmOnlinePayment(req IntakeRequest, transactionID string) (models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Enrollment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if req.Channel != models.PaymentChannelOnline {
		return models.Enrollment{}, appErrors.Clone(appErrors.ErrValidation, "payment confirmation applies to online enrollments only")
	}
	plan, err := ComputePlan(req.TotalFee, req.Scheme, s.declaredFirst(req))
	if err != nil {
		return models.Enrollment{}, err
	}
	if transactionID == "" {
		transactionID = models.NewCode("TXN")
	}

	draft := s.draft(req, plan)
	draft.AmountPaid = plan.AmountDue
	draft.TransactionID = transactionID
	draft.PaymentStatus = PaymentStatusFor(plan.AmountDue, plan.TotalFee)

	enrollment, err := s.enrollments.Add(draft)
	if err != nil {
		return models.Enrollment{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.logger.Info("online enrollment confirmed",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("transaction_id", transactionID),
		zap.Int64("amount", plan.AmountDue))
	return enrollment, nil
}

// RecordPayment adds a subsequent payment against a pending enrollment and
// re-derives its payment status. The running total may never exceed the
// declared fee.
func (s *EnrollmentService) RecordPayment(id string, req RecordPaymentRequest) (models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Enrollment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	enrollment, ok := s.enrollments.Find(id)
	if !ok {
		return models.Enrollment{}, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if enrollment.TotalFee > 0 && enrollment.AmountPaid+req.Amount > enrollment.TotalFee {
		return models.Enrollment{}, appErrors.Clone(appErrors.ErrValidation, "payment exceeds remaining fee")
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = models.NewCode("TXN")
	}

	updated, _ := s.enrollments.Update(id, func(e *models.Enrollment) {
		e.AmountPaid += req.Amount
		e.TransactionID = transactionID
		e.PaymentStatus = PaymentStatusFor(e.AmountPaid, e.TotalFee)
	})
	s.logger.Info("enrollment payment recorded",
		zap.String("enrollment_id", id),
		zap.Int64("amount", req.Amount),
		zap.String("status", string(updated.PaymentStatus)))
	return updated, nil
}

// Reject removes a pending enrollment. Terminal; there is no further effect.
func (s *EnrollmentService) Reject(id string) error {
	if !s.enrollments.Remove(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	s.logger.Info("enrollment rejected", zap.String("enrollment_id", id))
	return nil
}

func (s *EnrollmentService) declaredFirst(req IntakeRequest) int64 {
	if req.Scheme == models.PaymentSchemeFull {
		return req.TotalFee
	}
	return req.FirstInstallment
}

func (s *EnrollmentService) draft(req IntakeRequest, plan models.PaymentPlan) models.Enrollment {
	return models.Enrollment{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Class:       req.Class,
		Batch:       req.Batch,
		CourseName:  req.CourseName,
		Mode:        req.Channel,
		Status:      models.EnrollmentStatusPending,
		PaymentType: plan.Scheme,
		TotalFee:    plan.TotalFee,
	}
}
