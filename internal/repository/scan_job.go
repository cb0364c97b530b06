package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
)

type ScanJobRepository interface {
	Start(ctx context.Context, fileID *uuid.UUID, method string) (*entity.ScanJob, error)
	FinishOCR(ctx context.Context, jobID uuid.UUID, text string, confidence float32) error
	FinishParse(ctx context.Context, jobID, contactID uuid.UUID, lexiconVersion int) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, cause error) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ScanJob, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*entity.ScanJob, error)
}

type scanJobRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewScanJobRepository(db *DB, logger *slog.Logger) ScanJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &scanJobRepo{
		db:     db,
		logger: logger,
	}
}

const scanJobColumns = `id, file_id, contact_id, status, method, ocr_text, ocr_confidence, lexicon_version, error_message, started_at, finished_at`

func scanScanJob(row interface{ Scan(...any) error }) (*entity.ScanJob, error) {
	var (
		j                 entity.ScanJob
		id, status        string
		fileID, contactID sql.NullString
		confidence        sql.NullFloat64
		startedAt         int64
		finishedAt        sql.NullInt64
	)
	err := row.Scan(&id, &fileID, &contactID, &status, &j.Method, &j.OCRText, &confidence,
		&j.LexiconVersion, &j.ErrorMessage, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if j.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("scan job id %q: %w", id, err)
	}
	if j.FileID, err = parseNullUUID(fileID); err != nil {
		return nil, err
	}
	if j.ContactID, err = parseNullUUID(contactID); err != nil {
		return nil, err
	}
	j.Status = constants.ScanStatus(status)
	if confidence.Valid {
		c := float32(confidence.Float64)
		j.OCRConfidence = &c
	}
	j.StartedAt = fromUnix(startedAt)
	if finishedAt.Valid {
		t := fromUnix(finishedAt.Int64)
		j.FinishedAt = &t
	}
	return &j, nil
}

func (r *scanJobRepo) Start(ctx context.Context, fileID *uuid.UUID, method string) (*entity.ScanJob, error) {
	job := &entity.ScanJob{
		ID:        uuid.New(),
		FileID:    fileID,
		Status:    constants.ScanStatusRunning,
		Method:    method,
		StartedAt: fromUnix(toUnix(time.Now())),
	}
	_, err := r.db.exec(ctx,
		`INSERT INTO scan_jobs (id, file_id, status, method, started_at) VALUES (?, ?, ?, ?, ?)`,
		job.ID.String(), nullUUID(fileID), string(job.Status), method, toUnix(job.StartedAt))
	if err != nil {
		r.logger.Error("failed to start scan job", "file_id", fileID, "error", err)
		return nil, fmt.Errorf("start scan job: %w", err)
	}
	r.logger.Info("scan_job started", "job_id", job.ID, "file_id", fileID, "method", method)
	return job, nil
}

func (r *scanJobRepo) FinishOCR(ctx context.Context, jobID uuid.UUID, text string, confidence float32) error {
	err := r.update(ctx, jobID,
		`UPDATE scan_jobs SET status = ?, ocr_text = ?, ocr_confidence = ? WHERE id = ?`,
		string(constants.ScanStatusOCROK), text, float64(confidence), jobID.String())
	if err != nil {
		r.logger.Error("failed to finish scan job ocr", "job_id", jobID, "error", err)
		return err
	}
	r.logger.Info("scan_job ocr finished", "job_id", jobID, "text_len", len(text), "confidence", confidence)
	return nil
}

func (r *scanJobRepo) FinishParse(ctx context.Context, jobID, contactID uuid.UUID, lexiconVersion int) error {
	err := r.update(ctx, jobID,
		`UPDATE scan_jobs SET status = ?, contact_id = ?, lexicon_version = ?, finished_at = ? WHERE id = ?`,
		string(constants.ScanStatusParsed), contactID.String(), lexiconVersion, toUnix(time.Now()), jobID.String())
	if err != nil {
		r.logger.Error("failed to finish scan job parse", "job_id", jobID, "error", err)
		return err
	}
	r.logger.Info("scan_job parsed", "job_id", jobID, "contact_id", contactID)
	return nil
}

func (r *scanJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := r.update(ctx, jobID,
		`UPDATE scan_jobs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(constants.ScanStatusFailed), msg, toUnix(time.Now()), jobID.String())
	if err != nil {
		r.logger.Error("failed to mark scan job failed", "job_id", jobID, "error", err)
		return err
	}
	r.logger.Warn("scan_job failed", "job_id", jobID, "error_message", msg)
	return nil
}

func (r *scanJobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ScanJob, error) {
	row := r.db.queryRow(ctx, `SELECT `+scanJobColumns+` FROM scan_jobs WHERE id = ?`, jobID.String())
	j, err := scanScanJob(row)
	if err != nil {
		return nil, fmt.Errorf("get scan job %s: %w", jobID, err)
	}
	return j, nil
}

func (r *scanJobRepo) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*entity.ScanJob, error) {
	rows, err := r.db.query(ctx,
		`SELECT `+scanJobColumns+` FROM scan_jobs WHERE file_id = ? ORDER BY started_at DESC`, fileID.String())
	if err != nil {
		return nil, fmt.Errorf("list scan jobs: %w", err)
	}
	defer rows.Close()

	var out []*entity.ScanJob
	for rows.Next() {
		j, err := scanScanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan jobs: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *scanJobRepo) update(ctx context.Context, jobID uuid.UUID, query string, args ...any) error {
	res, err := r.db.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update scan job %s: %w", jobID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update scan job %s: %w", jobID, common.ErrNotFound)
	}
	return nil
}

func nullUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func parseNullUUID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, fmt.Errorf("parse uuid %q: %w", s.String, err)
	}
	return &id, nil
}
