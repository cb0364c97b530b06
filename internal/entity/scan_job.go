package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/constants"
)

// ScanJob tracks one OCR + extraction run.
type ScanJob struct {
	ID             uuid.UUID            `json:"id"`
	FileID         *uuid.UUID           `json:"file_id,omitempty"` // nil for pasted text
	ContactID      *uuid.UUID           `json:"contact_id,omitempty"`
	Status         constants.ScanStatus `json:"status"`
	Method         string               `json:"method,omitempty"` // ocr provider or "text"
	OCRText        string               `json:"ocr_text,omitempty"`
	OCRConfidence  *float32             `json:"ocr_confidence,omitempty"`
	LexiconVersion int                  `json:"lexicon_version,omitempty"`
	ErrorMessage   string               `json:"error_message,omitempty"`
	StartedAt      time.Time            `json:"started_at"`
	FinishedAt     *time.Time           `json:"finished_at,omitempty"`
}
