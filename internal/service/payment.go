package service

import (
	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
)

// PaymentStatusFor derives a payment status from amounts. It is the single
// source of truth: the enrollment lifecycle, student payments and the
// converter all call it rather than comparing amounts themselves.
//
// An unknown or zero fee reads as pending regardless of the amount paid; a
// record with no declared fee has nothing to settle against.
func PaymentStatusFor(amountPaid, totalFee int64) models.PaymentStatus {
	switch {
	case totalFee > 0 && amountPaid >= totalFee:
		return models.PaymentStatusPaid
	case amountPaid > 0 && amountPaid < totalFee:
		return models.PaymentStatusPartial
	default:
		return models.PaymentStatusPending
	}
}

// ComputePlan splits a course fee per the chosen scheme. Full pays everything
// up front; installment pays ceil(totalFee/2) now and the rest later. The
// declared first installment must be positive for the installment scheme;
// violations surface before anything is persisted.
func ComputePlan(totalFee int64, scheme models.PaymentScheme, declaredFirst int64) (models.PaymentPlan, error) {
	if totalFee <= 0 {
		return models.PaymentPlan{}, appErrors.Clone(appErrors.ErrValidation, "course fee must be positive")
	}

	switch scheme {
	case models.PaymentSchemeFull:
		return models.PaymentPlan{
			Scheme:    scheme,
			TotalFee:  totalFee,
			AmountDue: totalFee,
			Remaining: 0,
		}, nil
	case models.PaymentSchemeInstallment:
		if declaredFirst <= 0 {
			return models.PaymentPlan{}, appErrors.Clone(appErrors.ErrValidation, "first installment amount is required")
		}
		due := (totalFee + 1) / 2
		return models.PaymentPlan{
			Scheme:    scheme,
			TotalFee:  totalFee,
			AmountDue: due,
			Remaining: totalFee - due,
		}, nil
	default:
		return models.PaymentPlan{}, appErrors.Clone(appErrors.ErrValidation, "unknown payment scheme")
	}
}
