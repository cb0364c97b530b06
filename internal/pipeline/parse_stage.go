package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

type ParseStage struct {
	Logger       *slog.Logger
	JobsRepo     repository.ScanJobRepository
	ContactsRepo repository.ContactRepository
	Extractor    *contact.Extractor
}

func NewParseStage(logger *slog.Logger, jobs repository.ScanJobRepository, contacts repository.ContactRepository, ex *contact.Extractor) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{Logger: logger, JobsRepo: jobs, ContactsRepo: contacts, Extractor: ex}
}

// Run classifies the OCR text of an OCR_OK job and stores the contact.
func (s *ParseStage) Run(ctx context.Context, jobID uuid.UUID) (*entity.Contact, error) {
	job, err := s.JobsRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job.Status != constants.ScanStatusOCROK {
		return nil, fmt.Errorf("job not ready for parse: status=%s", job.Status)
	}

	rec := s.Extractor.Extract(job.OCRText)
	if rec.IsEmpty() {
		s.Logger.Warn("scan.parse.empty", "job_id", job.ID, "ocr_bytes", len(job.OCRText))
	}

	c, err := s.ContactsRepo.Create(ctx, rec, &job.ID)
	if err != nil {
		if ferr := s.JobsRepo.FinishFailure(ctx, job.ID, fmt.Errorf("store contact: %w", err)); ferr != nil {
			s.Logger.Error("scan.job.finish_failure_error", "job_id", job.ID, "error", ferr)
		}
		return nil, fmt.Errorf("store contact: %w", err)
	}
	if err := s.JobsRepo.FinishParse(ctx, job.ID, c.ID, s.Extractor.LexiconVersion()); err != nil {
		return c, err
	}

	s.Logger.Info("scan.parse.ok",
		"job_id", job.ID,
		"contact_id", c.ID,
		"has_name", rec.Name != "",
		"has_email", rec.Email != "",
		"has_phone", rec.Phone != "",
	)
	return c, nil
}
