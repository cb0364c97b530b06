package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: card image -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Method     string // "image-ocr" | "remote-ocr" | "gosseract"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32 // 0..1, 0 when the engine reports none
}

// ImageRecognizer is an OCR engine that works on encoded image bytes.
type ImageRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, float32, error)
}
