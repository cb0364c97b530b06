package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/ocr"
)

// OCRAdapter exposes the tesseract exec extractor as a TextExtractor.
type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor, _ *slog.Logger) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextExtractionResult{
		Text:       r.Text,
		Method:     r.Method,
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}, err
}

// ImageAdapter runs an ImageRecognizer over a prepared card image. The
// preparer handles HEIC conversion and downscaling before the bytes are read.
type ImageAdapter struct {
	method   string
	rec      ImageRecognizer
	prep     *ocr.Extractor
	language string
	logger   *slog.Logger
}

func NewImageAdapter(method string, rec ImageRecognizer, prep *ocr.Extractor, language string, logger *slog.Logger) *ImageAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageAdapter{method: method, rec: rec, prep: prep, language: language, logger: logger}
}

func (a *ImageAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()
	var warns []string
	if a.prep != nil {
		prepared, w, cleanup, err := a.prep.Prepare(ctx, path)
		defer cleanup()
		warns = w
		if err != nil {
			return TextExtractionResult{Method: a.method, Warnings: warns}, err
		}
		path = prepared
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TextExtractionResult{Method: a.method, Warnings: warns}, fmt.Errorf("read image: %w", err)
	}
	text, conf, err := a.rec.Recognize(ctx, data)
	res := TextExtractionResult{
		Text:       ocr.Normalize(text),
		Method:     a.method,
		Language:   a.language,
		Duration:   time.Since(start),
		Warnings:   warns,
		Confidence: conf,
	}
	if err != nil {
		a.logger.Error("ocr.recognize.error", "method", a.method, "scan_id", common.ScanIDFromContext(ctx), "error", err)
		return res, err
	}
	if res.Confidence == 0 {
		res.Confidence = ocr.HeuristicConfidence(res.Text)
	}
	a.logger.Info("ocr.recognize.ok",
		"method", a.method,
		"scan_id", common.ScanIDFromContext(ctx),
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}
