package repository

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
)

type CardFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CardFile, error)
	GetByHash(ctx context.Context, hash []byte) (*entity.CardFile, error)
	Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.CardFile, error)
	UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.CardFile, bool, error)
}

type cardFileRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewCardFileRepository(db *DB, logger *slog.Logger) CardFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &cardFileRepo{
		db:     db,
		logger: logger,
	}
}

const cardFileColumns = `id, source_path, content_hash, filename, file_ext, file_size, uploaded_at`

func scanCardFile(row interface{ Scan(...any) error }) (*entity.CardFile, error) {
	var (
		f          entity.CardFile
		id, hash   string
		uploadedAt int64
	)
	if err := row.Scan(&id, &f.SourcePath, &hash, &f.Filename, &f.FileExt, &f.FileSize, &uploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	var err error
	if f.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("card file id %q: %w", id, err)
	}
	if f.ContentHash, err = hex.DecodeString(hash); err != nil {
		return nil, fmt.Errorf("card file hash: %w", err)
	}
	f.UploadedAt = fromUnix(uploadedAt)
	return &f, nil
}

func (r *cardFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CardFile, error) {
	row := r.db.queryRow(ctx, `SELECT `+cardFileColumns+` FROM card_files WHERE id = ?`, id.String())
	f, err := scanCardFile(row)
	if err != nil {
		return nil, fmt.Errorf("get card file %s: %w", id, err)
	}
	return f, nil
}

func (r *cardFileRepo) GetByHash(ctx context.Context, hash []byte) (*entity.CardFile, error) {
	row := r.db.queryRow(ctx, `SELECT `+cardFileColumns+` FROM card_files WHERE content_hash = ?`, hex.EncodeToString(hash))
	f, err := scanCardFile(row)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			r.logger.Error("failed to get card file by hash", "error", err)
		}
		return nil, err
	}
	return f, nil
}

func (r *cardFileRepo) Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.CardFile, error) {
	f := &entity.CardFile{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: hash,
		Filename:    filename,
		FileExt:     ext,
		FileSize:    size,
		UploadedAt:  uploadedAt.UTC(),
	}
	_, err := r.db.exec(ctx,
		`INSERT INTO card_files (`+cardFileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.SourcePath, hex.EncodeToString(hash), f.Filename, f.FileExt, f.FileSize, toUnix(uploadedAt))
	if err != nil {
		r.logger.Error("failed to create card file", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, fmt.Errorf("create card file: %w", err)
	}
	f.UploadedAt = fromUnix(toUnix(uploadedAt))
	return f, nil
}

// UpsertByHash returns the existing row for hash (deduped=true) or creates one.
func (r *cardFileRepo) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.CardFile, bool, error) {
	existing, err := r.GetByHash(ctx, hash)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}
	row, err := r.Create(ctx, sourcePath, filename, ext, size, hash, uploadedAt)
	if err != nil {
		r.logger.Error("failed to upsert card file by hash", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, false, err
	}
	return row, false, nil
}
