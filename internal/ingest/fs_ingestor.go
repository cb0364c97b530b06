package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

// FSIngestor records card images from the local filesystem.
type FSIngestor struct {
	FilesRepo repository.CardFileRepository
	UploadDir string // where IngestBytes stores uploads
	Logger    *slog.Logger
}

func NewFSIngestor(f repository.CardFileRepository, uploadDir string, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if uploadDir == "" {
		uploadDir = "./tmp/uploads"
	}
	return &FSIngestor{
		FilesRepo: f,
		UploadDir: uploadDir,
		Logger:    logger,
	}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		i.Logger.Error("abs path error", "path", path, "error", err)
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.Logger.Warn("unsupported or missing extension", "path", abs, "ext", ext)
		return out, fmt.Errorf("%w: unsupported or missing extension %q", common.ErrInvalidInput, ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		i.Logger.Error("open error", "path", abs, "error", err)
		return out, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.Logger.Warn("close file error", "path", abs, "error", err)
		}
	}(f)

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		i.Logger.Error("hash error", "path", abs, "error", err)
		return out, err
	}
	return i.record(ctx, abs, ext, int(n), h.Sum(nil))
}

// IngestBytes writes data under UploadDir as {sha256}.{ext} and records it.
// The extension comes from filename, or from the content when filename has none.
func (i *FSIngestor) IngestBytes(ctx context.Context, data []byte, filename string) (IngestionResult, error) {
	if len(data) == 0 {
		return IngestionResult{}, fmt.Errorf("%w: empty upload", common.ErrInvalidInput)
	}
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if ext == "" {
		ext = SniffExt(data)
	}
	if !AllowedExt(ext) {
		return IngestionResult{}, fmt.Errorf("%w: unsupported image type %q", common.ErrInvalidInput, ext)
	}

	sum := sha256.Sum256(data)
	hashHex := hex.EncodeToString(sum[:])
	if err := os.MkdirAll(i.UploadDir, 0o755); err != nil {
		return IngestionResult{}, fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := filepath.Abs(filepath.Join(i.UploadDir, hashHex+"."+ext))
	if err != nil {
		return IngestionResult{}, err
	}
	if _, err := os.Stat(dst); errors.Is(err, fs.ErrNotExist) {
		tmp := dst + ".part"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return IngestionResult{}, fmt.Errorf("write upload: %w", err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.Remove(tmp)
			return IngestionResult{}, fmt.Errorf("store upload: %w", err)
		}
	}
	i.Logger.Info("ingest.upload.stored", "path", dst, "bytes", len(data))
	return i.record(ctx, dst, ext, len(data), sum[:])
}

func (i *FSIngestor) record(ctx context.Context, path, ext string, size int, sum []byte) (IngestionResult, error) {
	row, dedup, err := i.FilesRepo.UpsertByHash(ctx, path, filepath.Base(path), ext, size, sum, time.Now().UTC())
	if err != nil {
		return IngestionResult{}, err
	}
	return IngestionResult{
		SourcePath:   row.SourcePath,
		FileID:       row.ID.String(),
		Deduplicated: dedup,
		HashHex:      hex.EncodeToString(sum),
		FileExt:      row.FileExt,
		UploadedAt:   row.UploadedAt,
	}, nil
}

// IngestDirectory walks root, skips hidden if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(
	ctx context.Context,
	root string,
	skipHidden bool,
) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("%w: root path is required", common.ErrInvalidInput)
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	i.Logger.Info("ingest.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed)
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
