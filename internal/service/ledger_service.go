package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
)

// LedgerRecorder observes ledger rebuild timings.
type LedgerRecorder interface {
	ObserveLedgerRebuild(duration time.Duration)
}

// LedgerView is one full projection of the payment ledger.
type LedgerView struct {
	Transactions []models.Transaction `json:"transactions"`
	Stats        models.LedgerStats   `json:"stats"`
}

// LedgerService is a stateless read-only projection over the enrollment and
// student stores. Every read recomputes the view from current store state, so
// it is always consistent at the cost of O(n) work per access.
type LedgerService struct {
	enrollments enrollmentStore
	students    studentStore
	metrics     LedgerRecorder
	logger      *zap.Logger
}

// NewLedgerService constructs LedgerService.
func NewLedgerService(enrollments enrollmentStore, students studentStore, metrics LedgerRecorder, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{enrollments: enrollments, students: students, metrics: metrics, logger: logger}
}

// Build joins both stores into one reverse-chronological transaction list
// plus summary statistics. One transaction is emitted per enrollment that has
// collected money and one per student payment record. Enrollments and
// students are accounted independently and never merged, even when they
// represent the same person: conversion deletes the enrollment, so at any
// instant each fee lives in exactly one source.
func (s *LedgerService) Build() LedgerView {
	start := time.Now()

	enrollments := s.enrollments.List()
	students := s.students.List()

	transactions := make([]models.Transaction, 0, len(enrollments)+len(students))
	var stats models.LedgerStats

	for _, e := range enrollments {
		if e.TotalFee > 0 {
			stats.TotalExpected += e.TotalFee
			stats.TotalPending += pendingBalance(e.TotalFee, e.AmountPaid)
		}
		if e.AmountPaid <= 0 {
			continue
		}
		transactions = append(transactions, models.Transaction{
			ID:          e.ID,
			Date:        e.Date,
			StudentName: e.Name,
			Amount:      e.AmountPaid,
			Type:        e.PaymentType,
			Mode:        e.Mode,
			Status:      PaymentStatusFor(e.AmountPaid, e.TotalFee),
			Source:      models.TransactionSourceEnrollment,
			RelatedID:   e.ID,
			CourseName:  e.CourseName,
		})
	}

	for _, st := range students {
		if st.TotalFee > 0 {
			stats.TotalExpected += st.TotalFee
			stats.TotalPending += pendingBalance(st.TotalFee, st.AmountPaid())
		}
		status := PaymentStatusFor(st.AmountPaid(), st.TotalFee)
		for _, p := range st.PaymentHistory {
			transactions = append(transactions, models.Transaction{
				ID:          p.ID,
				Date:        p.Date,
				StudentName: st.Name,
				Amount:      p.Amount,
				Type:        p.Type,
				Mode:        p.Mode,
				Status:      status,
				Source:      models.TransactionSourceStudent,
				RelatedID:   st.ID,
				CourseName:  st.CourseName,
				ReceiptID:   p.ReceiptID,
			})
		}
	}

	for _, t := range transactions {
		stats.TotalCollected += t.Amount
	}

	// Descending by date; ties keep their original relative order.
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	if s.metrics != nil {
		s.metrics.ObserveLedgerRebuild(time.Since(start))
	}
	return LedgerView{Transactions: transactions, Stats: stats}
}

func pendingBalance(totalFee, paid int64) int64 {
	if remaining := totalFee - paid; remaining > 0 {
		return remaining
	}
	return 0
}
