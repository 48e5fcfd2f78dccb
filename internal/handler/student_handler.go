package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachdesk/coachdesk-api/internal/models"
	"github.com/coachdesk/coachdesk-api/internal/service"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
	"github.com/coachdesk/coachdesk-api/pkg/response"
)

// StudentHandler exposes student roster and payment endpoints.
type StudentHandler struct {
	students *service.StudentService
	receipts *service.ReceiptService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, receipts *service.ReceiptService) *StudentHandler {
	return &StudentHandler{students: students, receipts: receipts}
}

// updateStudentRequest patches mutable roster fields.
type updateStudentRequest struct {
	Name       string                 `json:"name"`
	Phone      string                 `json:"phone"`
	Batch      string                 `json:"batch"`
	RollNumber string                 `json:"roll_number"`
	Category   models.StudentCategory `json:"category"`
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.RedactStudents(h.students.List()), nil)
}

// Get godoc
// @Summary Get one student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student.Redacted(), nil)
}

// Create godoc
// @Summary Add a student directly
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student.Redacted())
}

// Update godoc
// @Summary Update student profile fields
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body updateStudentRequest true "Profile patch"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req updateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.UpdateProfile(c.Param("id"), req.Name, req.Phone, req.Batch, req.RollNumber, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student.Redacted(), nil)
}

// RecordPayment godoc
// @Summary Append a payment to a student's history
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.StudentPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/payments [post]
func (h *StudentHandler) RecordPayment(c *gin.Context) {
	var req service.StudentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.RecordPayment(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student.Redacted(), nil)
}

// Receipt godoc
// @Summary Request a signed download link for a payment receipt
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param receiptId path string true "Receipt ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/receipts/{receiptId} [get]
func (h *StudentHandler) Receipt(c *gin.Context) {
	link, err := h.receipts.RequestReceipt(c.Param("id"), c.Param("receiptId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Delete godoc
// @Summary Remove a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 204 "No Content"
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Remove(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
