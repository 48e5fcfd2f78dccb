package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
)

type recordedRebuilds struct {
	count int
}

func (r *recordedRebuilds) ObserveLedgerRebuild(time.Duration) { r.count++ }

func ledgerFixture() (*memEnrollmentStore, *memStudentStore) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	enrollments := &memEnrollmentStore{items: []models.Enrollment{
		{
			ID:          "enr-paid",
			Name:        "Priya Sharma",
			Date:        base.AddDate(0, 0, 2),
			Mode:        models.PaymentChannelOnline,
			PaymentType: models.PaymentSchemeInstallment,
			AmountPaid:  25000,
			TotalFee:    50000,
		},
		{
			ID:       "enr-unpaid",
			Name:     "Rahul Verma",
			Date:     base.AddDate(0, 0, 3),
			TotalFee: 30000,
		},
	}}
	students := &memStudentStore{items: []models.Student{{
		ID:       "stu-1",
		Name:     "Anita Rao",
		TotalFee: 40000,
		PaymentHistory: []models.PaymentRecord{
			{
				ID:        "pay-1",
				Date:      base,
				Amount:    20000,
				Mode:      models.PaymentChannelOffline,
				Type:      models.PaymentSchemeInstallment,
				ReceiptID: "RCP-AAAA1111",
			},
			{
				ID:     "pay-2",
				Date:   base.AddDate(0, 0, 5),
				Amount: 20000,
				Mode:   models.PaymentChannelOffline,
				Type:   models.PaymentSchemeInstallment,
			},
		},
	}}}
	return enrollments, students
}

func TestLedgerBuildJoinsBothSources(t *testing.T) {
	enrollments, students := ledgerFixture()
	svc := NewLedgerService(enrollments, students, nil, zap.NewNop())

	view := svc.Build()

	// One for the paid enrollment, two student payments; the unpaid
	// enrollment contributes to stats only.
	require.Len(t, view.Transactions, 3)

	bySource := map[models.TransactionSource]int{}
	for _, tx := range view.Transactions {
		bySource[tx.Source]++
	}
	assert.Equal(t, 1, bySource[models.TransactionSourceEnrollment])
	assert.Equal(t, 2, bySource[models.TransactionSourceStudent])
}

func TestLedgerBuildSortsNewestFirst(t *testing.T) {
	enrollments, students := ledgerFixture()
	svc := NewLedgerService(enrollments, students, nil, zap.NewNop())

	view := svc.Build()
	for i := 1; i < len(view.Transactions); i++ {
		assert.False(t, view.Transactions[i].Date.After(view.Transactions[i-1].Date),
			"transactions must be ordered newest first")
	}
	assert.Equal(t, "pay-2", view.Transactions[0].ID)
}

func TestLedgerBuildStats(t *testing.T) {
	enrollments, students := ledgerFixture()
	svc := NewLedgerService(enrollments, students, nil, zap.NewNop())

	stats := svc.Build().Stats
	assert.Equal(t, int64(65000), stats.TotalCollected)
	assert.Equal(t, int64(120000), stats.TotalExpected)
	assert.Equal(t, int64(55000), stats.TotalPending)
}

func TestLedgerBuildIsStateless(t *testing.T) {
	enrollments, students := ledgerFixture()
	svc := NewLedgerService(enrollments, students, nil, zap.NewNop())

	before := svc.Build()
	require.Len(t, before.Transactions, 3)

	enrollments.Remove("enr-paid")
	after := svc.Build()
	assert.Len(t, after.Transactions, 2, "each build must reflect current store state")
	assert.Equal(t, int64(40000), after.Stats.TotalCollected)
}

func TestLedgerBuildObservesRebuilds(t *testing.T) {
	enrollments, students := ledgerFixture()
	rec := &recordedRebuilds{}
	svc := NewLedgerService(enrollments, students, rec, zap.NewNop())

	svc.Build()
	svc.Build()
	assert.Equal(t, 2, rec.count)
}

func TestLedgerBuildEmptyStores(t *testing.T) {
	svc := NewLedgerService(&memEnrollmentStore{}, &memStudentStore{}, nil, zap.NewNop())

	view := svc.Build()
	assert.Empty(t, view.Transactions)
	assert.Equal(t, models.LedgerStats{}, view.Stats)
}
