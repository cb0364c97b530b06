package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/common"
)

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string

	PSM int // page segmentation mode; 0 leaves tesseract's default, 4 or 6 suit most cards
	OEM int // 1 = LSTM; leave 0 to use default

	EnableTSVConfidence bool
	HeicConverter       string // "heif-convert" | "magick" | "sips"
	ArtifactCacheDir    string
	MaxImageDim         int           // longest side in pixels before downscaling; 0 disables
	CommandTimeout      time.Duration // per external command; 0 -> 60s
}

type ExtractionResult struct {
	Text       string
	Method     string // "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithRunner swaps the command runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.ArtifactCacheDir == "" {
		cfg.ArtifactCacheDir = "./tmp"
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 60 * time.Second
	}
	e := &Extractor{cfg: cfg, runner: execRunner{timeout: cfg.CommandTimeout}, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract recognizes the text of a card image.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	prepared, warns, cleanup, err := e.Prepare(ctx, path)
	defer cleanup()
	if err != nil {
		return ExtractionResult{Warnings: warns}, err
	}

	res, err := e.extractImage(ctx, prepared)
	res.Duration = time.Since(start)
	res.Warnings = append(warns, res.Warnings...)
	if err != nil {
		return res, err
	}
	e.logger.Info("ocr.image.ok",
		"scan_id", common.ScanIDFromContext(ctx),
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

// Prepare turns a card image into something an OCR engine can read: HEIC is
// converted to PNG and oversized or exotic formats are re-encoded. The returned
// cleanup is never nil and removes any temporary files.
func (e *Extractor) Prepare(ctx context.Context, path string) (string, []string, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("preparing card image", "path", path, "ext", ext)
	if !constants.IsImageExt(ext) {
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return "", nil, cleanup, fmt.Errorf("unsupported extension: %q", ext)
	}

	var warns []string
	if constants.IsHEICExt(ext) {
		hashHex := ContentHashFromContext(ctx)
		out, w, done, err := convertHEICtoPNG(ctx, e.runner, e.logger, e.cfg.HeicConverter, path, e.cfg.ArtifactCacheDir, hashHex)
		warns = append(warns, w...)
		if done != nil {
			cleanups = append(cleanups, done)
		}
		if err != nil {
			e.logger.Error("heic conversion failed", "path", path, "error", err)
			return "", warns, cleanup, err
		}
		path = out
	}

	prepared, done, err := PrepareImage(path, e.cfg.MaxImageDim)
	if err != nil {
		e.logger.Warn("image preparation skipped", "path", path, "error", err)
		warns = append(warns, "prepare: "+err.Error())
		return path, warns, cleanup, nil
	}
	cleanups = append(cleanups, done)
	return prepared, warns, cleanup, nil
}
