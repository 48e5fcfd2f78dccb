package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
	"github.com/coachdesk/coachdesk-api/pkg/export"
	"github.com/coachdesk/coachdesk-api/pkg/jobs"
	"github.com/coachdesk/coachdesk-api/pkg/storage"
)

const (
	jobKindReceipt      = "render_receipt"
	jobKindLedgerExport = "export_ledger"
)

type receiptJob struct {
	StudentID string
	ReceiptID string
}

type ledgerExportJob struct {
	ExportID string
	Format   string
}

// ReceiptLink points a caller at a rendered document via a signed token. The
// file may still be rendering when the link is issued.
type ReceiptLink struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReceiptService renders payment receipts and ledger exports in the
// background and hands out signed download links.
type ReceiptService struct {
	students studentStore
	ledger   *LedgerService
	pdf      *export.PDFExporter
	csv      *export.CSVExporter
	files    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	queue    *jobs.Queue
	currency string
	logger   *zap.Logger
}

// ReceiptServiceConfig wires the receipt pipeline.
type ReceiptServiceConfig struct {
	Currency   string
	Workers    int
	MaxRetries int
	Logger     *zap.Logger
}

// NewReceiptService constructs ReceiptService and its render queue. Call
// Start before requesting documents and Stop on shutdown.
func NewReceiptService(students studentStore, ledger *LedgerService, files *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ReceiptServiceConfig) *ReceiptService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	s := &ReceiptService{
		students: students,
		ledger:   ledger,
		pdf:      export.NewPDFExporter(),
		csv:      export.NewCSVExporter(),
		files:    files,
		signer:   signer,
		currency: cfg.Currency,
		logger:   cfg.Logger,
	}
	s.queue = jobs.NewQueue("receipts", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     cfg.Logger,
	})
	return s
}

// Start begins background rendering.
func (s *ReceiptService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the render workers.
func (s *ReceiptService) Stop() { s.queue.Stop() }

// RequestReceipt queues rendering of one payment receipt and returns a signed
// download link for it.
func (s *ReceiptService) RequestReceipt(studentID, receiptID string) (*ReceiptLink, error) {
	student, ok := s.students.Find(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if _, ok := paymentByReceipt(student, receiptID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "receipt not found")
	}

	if err := s.queue.Enqueue(jobs.Job{
		ID:      receiptID,
		Kind:    jobKindReceipt,
		Payload: receiptJob{StudentID: studentID, ReceiptID: receiptID},
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue receipt")
	}

	return s.link(receiptID, receiptFilename(receiptID))
}

// RequestLedgerExport queues a full ledger export in the given format
// ("csv" or "pdf") and returns a signed download link.
func (s *ReceiptService) RequestLedgerExport(format string) (*ReceiptLink, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	exportID := models.NewCode("EXP")
	if err := s.queue.Enqueue(jobs.Job{
		ID:      exportID,
		Kind:    jobKindLedgerExport,
		Payload: ledgerExportJob{ExportID: exportID, Format: format},
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue ledger export")
	}
	return s.link(exportID, exportID+"."+format)
}

// Open resolves a signed token to the rendered file. Rendering is
// asynchronous, so a valid token may briefly refer to a file that does not
// exist yet.
func (s *ReceiptService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document not ready")
	}
	return file, nil
}

func (s *ReceiptService) link(id, relPath string) (*ReceiptLink, error) {
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return &ReceiptLink{ID: id, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *ReceiptService) handleJob(_ context.Context, job jobs.Job) error {
	switch job.Kind {
	case jobKindReceipt:
		payload, ok := job.Payload.(receiptJob)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", job.Kind)
		}
		return s.renderReceipt(payload)
	case jobKindLedgerExport:
		payload, ok := job.Payload.(ledgerExportJob)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", job.Kind)
		}
		return s.renderLedgerExport(payload)
	default:
		return fmt.Errorf("unknown job kind %s", job.Kind)
	}
}

func (s *ReceiptService) renderReceipt(job receiptJob) error {
	student, ok := s.students.Find(job.StudentID)
	if !ok {
		return fmt.Errorf("student %s not found", job.StudentID)
	}
	record, ok := paymentByReceipt(student, job.ReceiptID)
	if !ok {
		return fmt.Errorf("receipt %s not found for student %s", job.ReceiptID, job.StudentID)
	}

	fields := []export.ReceiptField{
		{Label: "Receipt No", Value: record.ReceiptID},
		{Label: "Date", Value: record.Date.Format("02 Jan 2006")},
		{Label: "Student", Value: student.Name},
		{Label: "Register No", Value: student.RegisterNumber},
		{Label: "Course", Value: student.CourseName},
		{Label: "Amount", Value: s.amount(record.Amount)},
		{Label: "Mode", Value: string(record.Mode)},
		{Label: "Scheme", Value: string(record.Type)},
	}
	if record.TransactionID != "" {
		fields = append(fields, export.ReceiptField{Label: "Transaction", Value: record.TransactionID})
	}

	data, err := s.pdf.RenderReceipt("Payment Receipt", fields, "This is a computer generated receipt.")
	if err != nil {
		return err
	}
	if _, err := s.files.Save(receiptFilename(job.ReceiptID), data); err != nil {
		return err
	}
	s.logger.Info("receipt rendered", zap.String("receipt_id", job.ReceiptID), zap.String("student_id", student.ID))
	return nil
}

func (s *ReceiptService) renderLedgerExport(job ledgerExportJob) error {
	view := s.ledger.Build()
	dataset := export.Dataset{
		Headers: []string{"Date", "Student", "Amount", "Scheme", "Mode", "Status", "Source", "Course"},
	}
	for _, t := range view.Transactions {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":    t.Date.Format("2006-01-02"),
			"Student": t.StudentName,
			"Amount":  strconv.FormatInt(t.Amount, 10),
			"Scheme":  string(t.Type),
			"Mode":    string(t.Mode),
			"Status":  string(t.Status),
			"Source":  string(t.Source),
			"Course":  t.CourseName,
		})
	}

	var data []byte
	var err error
	if job.Format == "pdf" {
		data, err = s.pdf.Render(dataset, "Payment Ledger")
	} else {
		data, err = s.csv.Render(dataset)
	}
	if err != nil {
		return err
	}
	if _, err := s.files.Save(job.ExportID+"."+job.Format, data); err != nil {
		return err
	}
	s.logger.Info("ledger export rendered",
		zap.String("export_id", job.ExportID),
		zap.String("format", job.Format),
		zap.Int("transactions", len(view.Transactions)))
	return nil
}

func (s *ReceiptService) amount(v int64) string {
	return fmt.Sprintf("%s %d", s.currency, v)
}

func receiptFilename(receiptID string) string {
	return receiptID + ".pdf"
}

func paymentByReceipt(student models.Student, receiptID string) (models.PaymentRecord, bool) {
	for _, p := range student.PaymentHistory {
		if p.ReceiptID == receiptID {
			return p, true
		}
	}
	return models.PaymentRecord{}, false
}
