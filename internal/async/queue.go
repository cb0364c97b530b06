package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/internal/entity"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job asks for one stored card image to be scanned.
type Job struct {
	FileID      uuid.UUID
	Force       bool // rescan even if the file was deduplicated
	SubmittedAt time.Time
	TraceID     string
}

// Result is reported once per processed job.
type Result struct {
	Job     Job
	JobID   uuid.UUID
	Contact *entity.Contact
	Err     error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
