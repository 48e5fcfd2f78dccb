package service

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

func validCreateStudent() CreateStudentRequest {
	return CreateStudentRequest{
		Name:           "Anita Rao",
		Email:          "anita@example.com",
		Phone:          "9876500000",
		Class:          "11",
		RegisterNumber: "REG-2026-100",
		Password:       "changeme",
	}
}

func TestStudentCreate(t *testing.T) {
	store := &memStudentStore{}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	student, err := svc.Create(validCreateStudent())
	require.NoError(t, err)
	assert.True(t, student.IsFirstLogin)
	assert.NotEqual(t, "changeme", student.PasswordHash)
	assert.Len(t, store.items, 1)
}

func TestStudentCreateRejectsDuplicateRegisterNumber(t *testing.T) {
	store := &memStudentStore{items: []models.Student{{ID: "stu-1", RegisterNumber: "REG-2026-100"}}}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	_, err := svc.Create(validCreateStudent())
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, store.items, 1)
}

func TestStudentCreateValidatesBeforeWrite(t *testing.T) {
	store := &memStudentStore{}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	req := validCreateStudent()
	req.Password = "short"
	_, err := svc.Create(req)
	require.Error(t, err)
	assert.Empty(t, store.items)
}

func TestStudentRecordPaymentAppendsHistory(t *testing.T) {
	store := &memStudentStore{items: []models.Student{{ID: "stu-1", TotalFee: 40000}}}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	req := StudentPaymentRequest{
		Amount: 20000,
		Mode:   models.PaymentChannelOffline,
		Type:   models.PaymentSchemeInstallment,
	}
	student, err := svc.RecordPayment("stu-1", req)
	require.NoError(t, err)
	require.Len(t, student.PaymentHistory, 1)
	assert.Equal(t, models.PaymentStatusPartial, student.PaymentStatus)
	assert.NotEmpty(t, student.PaymentHistory[0].ReceiptID)

	student, err = svc.RecordPayment("stu-1", req)
	require.NoError(t, err)
	assert.Len(t, student.PaymentHistory, 2)
	assert.Equal(t, models.PaymentStatusPaid, student.PaymentStatus)
}

func TestStudentRecordPaymentRejectsOverpayment(t *testing.T) {
	store := &memStudentStore{items: []models.Student{{
		ID:       "stu-1",
		TotalFee: 40000,
		PaymentHistory: []models.PaymentRecord{
			{ID: "pay-1", Amount: 30000},
		},
	}}}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	_, err := svc.RecordPayment("stu-1", StudentPaymentRequest{
		Amount: 20000,
		Mode:   models.PaymentChannelOffline,
		Type:   models.PaymentSchemeInstallment,
	})
	require.Error(t, err)
	assert.Len(t, store.items[0].PaymentHistory, 1)
}

func TestStudentUpdateProfile(t *testing.T) {
	store := &memStudentStore{items: []models.Student{{ID: "stu-1", Name: "Old Name", Phone: "111"}}}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	student, err := svc.UpdateProfile("stu-1", "New Name", "", "", "", models.StudentCategorySlowLearner)
	require.NoError(t, err)
	assert.Equal(t, "New Name", student.Name)
	assert.Equal(t, "111", student.Phone, "blank fields are left alone")
	assert.Equal(t, models.StudentCategorySlowLearner, student.Category)

	_, err = svc.UpdateProfile("stu-1", "", "", "", "", models.StudentCategory("bogus"))
	require.Error(t, err)
}

func TestStudentRemove(t *testing.T) {
	store := &memStudentStore{items: []models.Student{{ID: "stu-1"}}}
	svc := NewStudentService(store, validator.New(), zap.NewNop())

	require.NoError(t, svc.Remove("stu-1"))
	require.Error(t, svc.Remove("stu-1"))
}
