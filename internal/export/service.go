package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

// File is a rendered export ready to be downloaded or written to disk.
type File struct {
	Data        []byte
	ContentType string
	FileName    string
	Rows        int
}

// Service renders the stored contact collection, newest first.
type Service struct {
	contactsRepo repository.ContactRepository
	logger       *slog.Logger
}

func NewService(repo repository.ContactRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{contactsRepo: repo, logger: logger}
}

// Export renders every stored contact in the given format.
func (s *Service) Export(ctx context.Context, format constants.ExportFormat) (File, error) {
	start := time.Now()
	contacts, err := s.contactsRepo.List(ctx, repository.ListOpts{})
	if err != nil {
		return File{}, fmt.Errorf("query contacts: %w", err)
	}
	recs := make([]contact.Record, len(contacts))
	for i, c := range contacts {
		recs[i] = c.Record()
	}

	data, err := Render(recs, format)
	if err != nil {
		return File{}, err
	}
	s.logger.Info("export."+string(format)+".ok",
		"rows", len(recs),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return File{
		Data:        data,
		ContentType: format.ContentType(),
		FileName:    format.FileName(),
		Rows:        len(recs),
	}, nil
}

// Render encodes recs in the given format.
func Render(recs []contact.Record, format constants.ExportFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case constants.ExportCSV:
		if err := WriteCSV(&buf, recs); err != nil {
			return nil, err
		}
	case constants.ExportVCard:
		if err := WriteVCard(&buf, recs); err != nil {
			return nil, err
		}
	case constants.ExportXLSX:
		return WriteXLSX(recs)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	return buf.Bytes(), nil
}
