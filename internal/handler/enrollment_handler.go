package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachdesk/coachdesk-api/internal/service"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
	"github.com/coachdesk/coachdesk-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment lifecycle endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	conversions *service.ConversionService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, conversions *service.ConversionService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, conversions: conversions}
}

// confirmPaymentRequest is the payment collaborator's success callback body.
type confirmPaymentRequest struct {
	Intake        service.IntakeRequest `json:"intake"`
	TransactionID string                `json:"transaction_id"`
}

// convertRequest carries the admin-supplied register number.
type convertRequest struct {
	RegisterNumber string `json:"register_number"`
}

// List godoc
// @Summary List pending enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.enrollments.List(), nil)
}

// Get godoc
// @Summary Get one enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Intake godoc
// @Summary Submit the public enrollment form
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.IntakeRequest true "Intake payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Intake(c *gin.Context) {
	var req service.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enrollments.Intake(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Enrollment == nil {
		// Online intake: nothing persisted until the payment callback.
		response.JSON(c, http.StatusOK, result, nil)
		return
	}
	response.Created(c, result)
}

// ConfirmPayment godoc
// @Summary Confirm a successful online payment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body confirmPaymentRequest true "Confirmation payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments/payments/confirm [post]
func (h *EnrollmentHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.ConfirmOnlinePayment(req.Intake, req.TransactionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// RecordPayment godoc
// @Summary Record a payment against a pending enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/payments [post]
func (h *EnrollmentHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.RecordPayment(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Convert godoc
// @Summary Convert a pending enrollment into a student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body convertRequest true "Register number"
// @Success 201 {object} response.Envelope
// @Router /enrollments/{id}/convert [post]
func (h *EnrollmentHandler) Convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.conversions.Convert(c.Param("id"), req.RegisterNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student.Redacted())
}

// Reject godoc
// @Summary Reject and remove a pending enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 204 "No Content"
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Reject(c *gin.Context) {
	if err := h.enrollments.Reject(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
