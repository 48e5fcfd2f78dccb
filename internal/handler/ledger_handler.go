package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachdesk/coachdesk-api/internal/service"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
	"github.com/coachdesk/coachdesk-api/pkg/response"
)

// LedgerHandler exposes the payment ledger projection and its exports.
type LedgerHandler struct {
	ledger   *service.LedgerService
	receipts *service.ReceiptService
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(ledger *service.LedgerService, receipts *service.ReceiptService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, receipts: receipts}
}

// Get godoc
// @Summary Get the full payment ledger with summary stats
// @Tags Ledger
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ledger [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	view := h.ledger.Build()
	response.JSON(c, http.StatusOK, view, nil)
}

// Export godoc
// @Summary Queue a ledger export and return a signed download link
// @Tags Ledger
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 202 {object} response.Envelope
// @Router /ledger/exports [post]
func (h *LedgerHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	link, err := h.receipts.RequestLedgerExport(format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, link, nil)
}

// Download godoc
// @Summary Download a rendered document via its signed token
// @Tags Ledger
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Router /downloads [get]
func (h *LedgerHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.receipts.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck
	c.File(file.Name())
}
