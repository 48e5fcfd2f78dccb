package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

type memEnrollmentStore struct {
	items  []models.Enrollment
	addErr error
}

func (m *memEnrollmentStore) List() []models.Enrollment {
	return append([]models.Enrollment(nil), m.items...)
}

func (m *memEnrollmentStore) Find(id string) (models.Enrollment, bool) {
	for _, e := range m.items {
		if e.ID == id {
			return e, true
		}
	}
	return models.Enrollment{}, false
}

func (m *memEnrollmentStore) Add(e models.Enrollment) (models.Enrollment, error) {
	if m.addErr != nil {
		return models.Enrollment{}, m.addErr
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("enr-%d", len(m.items)+1)
	}
	m.items = append(m.items, e)
	return e, nil
}

func (m *memEnrollmentStore) Update(id string, mutate func(*models.Enrollment)) (models.Enrollment, bool) {
	for i := range m.items {
		if m.items[i].ID == id {
			mutate(&m.items[i])
			return m.items[i], true
		}
	}
	return models.Enrollment{}, false
}

func (m *memEnrollmentStore) Remove(id string) bool {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func validIntake(channel models.PaymentChannel) IntakeRequest {
	return IntakeRequest{
		Name:     "Priya Sharma",
		Phone:    "9876543210",
		Email:    "priya@example.com",
		Class:    "12",
		Batch:    "evening",
		TotalFee: 50000,
		Scheme:   models.PaymentSchemeFull,
		Channel:  channel,
	}
}

func TestIntakeOfflinePersistsImmediately(t *testing.T) {
	store := &memEnrollmentStore{}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	result, err := svc.Intake(validIntake(models.PaymentChannelOffline))
	require.NoError(t, err)
	require.NotNil(t, result.Enrollment)

	assert.Len(t, store.items, 1)
	assert.Equal(t, models.EnrollmentStatusPending, store.items[0].Status)
	assert.Equal(t, int64(0), store.items[0].AmountPaid)
	assert.Equal(t, int64(50000), result.Plan.AmountDue)
}

func TestIntakeOnlinePersistsNothing(t *testing.T) {
	store := &memEnrollmentStore{}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	result, err := svc.Intake(validIntake(models.PaymentChannelOnline))
	require.NoError(t, err)

	assert.Nil(t, result.Enrollment)
	assert.Empty(t, store.items, "online intake must not persist before payment confirmation")
	assert.Equal(t, int64(50000), result.Plan.AmountDue)
}

func TestIntakeValidationRunsBeforeAnyWrite(t *testing.T) {
	store := &memEnrollmentStore{}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	req := validIntake(models.PaymentChannelOffline)
	req.Email = "not-an-email"
	_, err := svc.Intake(req)
	require.Error(t, err)
	assert.Empty(t, store.items)

	req = validIntake(models.PaymentChannelOffline)
	req.Scheme = models.PaymentSchemeInstallment
	req.FirstInstallment = 0
	_, err = svc.Intake(req)
	require.Error(t, err)
	assert.Empty(t, store.items)
}

func TestConfirmOnlinePaymentCreatesEnrollmentWithAmount(t *testing.T) {
	store := &memEnrollmentStore{}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	req := validIntake(models.PaymentChannelOnline)
	req.Scheme = models.PaymentSchemeInstallment
	req.FirstInstallment = 25000

	enrollment, err := svc.ConfirmOnlinePayment(req, "txn-abc")
	require.NoError(t, err)

	assert.Equal(t, int64(25000), enrollment.AmountPaid)
	assert.Equal(t, "txn-abc", enrollment.TransactionID)
	assert.Equal(t, models.PaymentStatusPartial, enrollment.PaymentStatus)
	assert.Len(t, store.items, 1)
}

func TestConfirmOnlinePaymentRejectsOfflineChannel(t *testing.T) {
	store := &memEnrollmentStore{}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	_, err := svc.ConfirmOnlinePayment(validIntake(models.PaymentChannelOffline), "txn-abc")
	require.Error(t, err)
	assert.Empty(t, store.items)
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	store := &memEnrollmentStore{items: []models.Enrollment{{
		ID:       "enr-1",
		Name:     "Priya Sharma",
		TotalFee: 50000,
	}}}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	updated, err := svc.RecordPayment("enr-1", RecordPaymentRequest{Amount: 20000})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, updated.PaymentStatus)
	assert.NotEmpty(t, updated.TransactionID)

	updated, err = svc.RecordPayment("enr-1", RecordPaymentRequest{Amount: 30000})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	store := &memEnrollmentStore{items: []models.Enrollment{{
		ID:         "enr-1",
		TotalFee:   50000,
		AmountPaid: 40000,
	}}}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	_, err := svc.RecordPayment("enr-1", RecordPaymentRequest{Amount: 20000})
	require.Error(t, err)
	assert.Equal(t, int64(40000), store.items[0].AmountPaid)
}

func TestRejectRemovesEnrollment(t *testing.T) {
	store := &memEnrollmentStore{items: []models.Enrollment{{ID: "enr-1"}}}
	svc := NewEnrollmentService(store, validator.New(), zap.NewNop())

	require.NoError(t, svc.Reject("enr-1"))
	assert.Empty(t, store.items)

	err := svc.Reject("enr-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
