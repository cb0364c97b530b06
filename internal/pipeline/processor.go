package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

// Scan job methods.
const (
	MethodOCR  = "ocr"  // card image through the configured OCR provider
	MethodText = "text" // text typed or pasted by the user
)

// Processor coordinates OCR (image -> text) then contact extraction.
type Processor struct {
	Logger *slog.Logger
	Jobs   repository.ScanJobRepository
	OCR    *OCRStage
	Parse  *ParseStage
}

func NewProcessor(logger *slog.Logger, jobs repository.ScanJobRepository, ocr *OCRStage, parse *ParseStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Jobs: jobs, OCR: ocr, Parse: parse}
}

// ProcessFile runs OCR for a stored card image, then extracts and stores
// the contact. Returns the scan job ID and the new contact.
func (p *Processor) ProcessFile(ctx context.Context, fileID uuid.UUID) (uuid.UUID, *entity.Contact, error) {
	if p.OCR == nil {
		return uuid.Nil, nil, common.NewAppError("PIPELINE", "no OCR stage configured", common.ErrInternal)
	}
	jobID, res, err := p.OCR.Run(ctx, fileID)
	if err != nil {
		p.Logger.Error("processor.ocr.failed", "file_id", fileID, "error", err)
		return jobID, nil, err
	}
	p.Logger.Info("processor.ocr.ok",
		"file_id", fileID,
		"job_id", jobID,
		"method", res.Method,
		"confidence", res.Confidence,
		"elapsed_ms", res.Duration.Milliseconds(),
	)

	c, err := p.Parse.Run(ctx, jobID)
	if err != nil {
		p.Logger.Error("processor.parse.failed", "job_id", jobID, "error", err)
		return jobID, nil, err
	}
	p.Logger.Info("processor.parse.ok", "job_id", jobID, "contact_id", c.ID)
	return jobID, c, nil
}

// ProcessText stores a contact from text the user typed or pasted.
func (p *Processor) ProcessText(ctx context.Context, text string) (uuid.UUID, *entity.Contact, error) {
	if strings.TrimSpace(text) == "" {
		return uuid.Nil, nil, common.NewAppError("VALIDATION_ERROR", "text required", common.ErrInvalidInput)
	}
	job, err := p.Jobs.Start(ctx, nil, MethodText)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if err := p.Jobs.FinishOCR(ctx, job.ID, text, 1); err != nil {
		return job.ID, nil, fmt.Errorf("record text: %w", err)
	}
	c, err := p.Parse.Run(ctx, job.ID)
	if err != nil {
		p.Logger.Error("processor.parse.failed", "job_id", job.ID, "error", err)
		return job.ID, nil, err
	}
	p.Logger.Info("processor.text.ok", "job_id", job.ID, "contact_id", c.ID)
	return job.ID, c, nil
}
