package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/extract"
	"github.com/joseph-ayodele/card-scanner/internal/ocr"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

// LowConfidenceThreshold flags OCR output worth a manual look.
const LowConfidenceThreshold = 0.45

type OCRStage struct {
	FilesRepo     repository.CardFileRepository
	JobsRepo      repository.ScanJobRepository
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewOCRStage(files repository.CardFileRepository, jobs repository.ScanJobRepository, tx extract.TextExtractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{FilesRepo: files, JobsRepo: jobs, TextExtractor: tx, Logger: logger}
}

// Run starts a scan job for the file, runs OCR and persists the text.
// Returns the job ID and the extraction summary.
func (s *OCRStage) Run(ctx context.Context, fileID uuid.UUID) (uuid.UUID, extract.TextExtractionResult, error) {
	row, err := s.FilesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("get file: %w", err)
	}
	if !constants.IsImageExt(row.FileExt) {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("unsupported format: %s", row.FileExt)
	}

	job, err := s.JobsRepo.Start(ctx, &row.ID, MethodOCR)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, err
	}

	ctx = common.WithScanID(ctx, job.ID.String())
	if len(row.ContentHash) > 0 {
		ctx = ocr.WithContentHash(ctx, hex.EncodeToString(row.ContentHash))
	}
	res, err := s.TextExtractor.Extract(ctx, row.SourcePath)
	if err != nil {
		if ferr := s.JobsRepo.FinishFailure(ctx, job.ID, fmt.Errorf("ocr: %w", err)); ferr != nil {
			s.Logger.Error("scan.job.finish_failure_error", "job_id", job.ID, "error", ferr)
		}
		return job.ID, res, err
	}

	if res.Confidence > 0 && res.Confidence < LowConfidenceThreshold {
		s.Logger.Warn("scan.ocr.low_confidence", "file_id", fileID, "job_id", job.ID, "confidence", res.Confidence)
	}
	for _, w := range res.Warnings {
		s.Logger.Debug("scan.ocr.warning", "job_id", job.ID, "warning", w)
	}

	if err := s.JobsRepo.FinishOCR(ctx, job.ID, res.Text, res.Confidence); err != nil {
		return job.ID, res, err
	}
	return job.ID, res, nil
}
