package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

type memStudentStore struct {
	items  []models.Student
	addErr error
}

func (m *memStudentStore) List() []models.Student {
	return append([]models.Student(nil), m.items...)
}

func (m *memStudentStore) Find(id string) (models.Student, bool) {
	for _, s := range m.items {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}

func (m *memStudentStore) Add(s models.Student) (models.Student, error) {
	if m.addErr != nil {
		return models.Student{}, m.addErr
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("stu-%d", len(m.items)+1)
	}
	m.items = append(m.items, s)
	return s, nil
}

func (m *memStudentStore) Update(id string, mutate func(*models.Student)) (models.Student, bool) {
	for i := range m.items {
		if m.items[i].ID == id {
			mutate(&m.items[i])
			return m.items[i], true
		}
	}
	return models.Student{}, false
}

func (m *memStudentStore) Remove(id string) bool {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func paidEnrollment() models.Enrollment {
	return models.Enrollment{
		ID:            "enr-1",
		Name:          "Priya Sharma",
		Email:         "priya@example.com",
		Phone:         "9876543210",
		Class:         "12",
		Mode:          models.PaymentChannelOnline,
		PaymentType:   models.PaymentSchemeInstallment,
		AmountPaid:    25000,
		TotalFee:      50000,
		TransactionID: "txn-abc",
	}
}

func TestConvertCreatesStudentAndRemovesEnrollment(t *testing.T) {
	enrollments := &memEnrollmentStore{items: []models.Enrollment{paidEnrollment()}}
	students := &memStudentStore{}
	svc := NewConversionService(enrollments, students, "student123", zap.NewNop())

	student, err := svc.Convert("enr-1", "REG-2026-001")
	require.NoError(t, err)

	assert.Empty(t, enrollments.items, "converted enrollment must be removed")
	require.Len(t, students.items, 1)
	assert.Equal(t, "REG-2026-001", student.RegisterNumber)
	assert.Equal(t, models.PaymentStatusPartial, student.PaymentStatus)
	assert.True(t, student.IsFirstLogin)

	require.Len(t, student.PaymentHistory, 1)
	assert.Equal(t, int64(25000), student.PaymentHistory[0].Amount)
	assert.Equal(t, "txn-abc", student.PaymentHistory[0].TransactionID)
	assert.NotEmpty(t, student.PaymentHistory[0].ReceiptID)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("student123")))
}

func TestConvertUnpaidEnrollmentHasEmptyHistory(t *testing.T) {
	e := paidEnrollment()
	e.AmountPaid = 0
	e.TransactionID = ""
	enrollments := &memEnrollmentStore{items: []models.Enrollment{e}}
	students := &memStudentStore{}
	svc := NewConversionService(enrollments, students, "student123", zap.NewNop())

	student, err := svc.Convert("enr-1", "REG-2026-002")
	require.NoError(t, err)
	assert.Empty(t, student.PaymentHistory)
	assert.Equal(t, models.PaymentStatusPending, student.PaymentStatus)
}

func TestConvertAbortsWhenStudentWriteFails(t *testing.T) {
	enrollments := &memEnrollmentStore{items: []models.Enrollment{paidEnrollment()}}
	students := &memStudentStore{addErr: errors.New("disk full")}
	svc := NewConversionService(enrollments, students, "student123", zap.NewNop())

	_, err := svc.Convert("enr-1", "REG-2026-003")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConversionAborted.Code, appErr.Code)

	assert.Len(t, enrollments.items, 1, "aborted conversion must leave the enrollment in place")
	assert.Empty(t, students.items)
}

func TestConvertRequiresRegisterNumber(t *testing.T) {
	enrollments := &memEnrollmentStore{items: []models.Enrollment{paidEnrollment()}}
	students := &memStudentStore{}
	svc := NewConversionService(enrollments, students, "student123", zap.NewNop())

	_, err := svc.Convert("enr-1", "   ")
	require.Error(t, err)
	assert.Len(t, enrollments.items, 1)
	assert.Empty(t, students.items)
}

func TestConvertMissingEnrollmentIsNotFound(t *testing.T) {
	svc := NewConversionService(&memEnrollmentStore{}, &memStudentStore{}, "student123", zap.NewNop())

	_, err := svc.Convert("gone", "REG-2026-004")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
