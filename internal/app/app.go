// Package app wires the repositories, OCR provider and scan pipeline from a
// loaded configuration. Both binaries build on it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/export"
	"github.com/joseph-ayodele/card-scanner/internal/extract"
	"github.com/joseph-ayodele/card-scanner/internal/ingest"
	"github.com/joseph-ayodele/card-scanner/internal/pipeline"
	repo "github.com/joseph-ayodele/card-scanner/internal/repository"
	"github.com/joseph-ayodele/card-scanner/internal/server"
)

// App holds the wired components. Close releases the database.
type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	DB        *repo.DB
	Files     repo.CardFileRepository
	Jobs      repo.ScanJobRepository
	Contacts  repo.ContactRepository
	Extractor *contact.Extractor
	Processor *pipeline.Processor
	Ingestor  *ingest.FSIngestor
	Exporter  *export.Service
}

// NewExtractor builds the contact extractor from the extract config: an
// optional lexicon file, language tags and the input cap.
func NewExtractor(cfg common.ExtractConfig) (*contact.Extractor, error) {
	var opts []contact.Option
	if cfg.LexiconPath != "" {
		f, err := os.Open(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("open lexicon: %w", err)
		}
		defer f.Close()
		lex, err := contact.LoadLexicon(f)
		if err != nil {
			return nil, fmt.Errorf("load lexicon %s: %w", cfg.LexiconPath, err)
		}
		opts = append(opts, contact.WithLexicon(lex))
	}
	if len(cfg.Languages) > 0 {
		opts = append(opts, contact.WithLanguages(cfg.Languages...))
	}
	if cfg.MaxInputBytes > 0 {
		opts = append(opts, contact.WithMaxInputBytes(cfg.MaxInputBytes))
	}
	return contact.NewExtractor(opts...)
}

// New validates cfg, opens the database and wires the pipeline. The OCR
// stage is only built when withOCR is set, so text-only commands do not
// need an OCR provider.
func New(ctx context.Context, cfg *common.Config, withOCR bool, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ex, err := NewExtractor(cfg.Extract)
	if err != nil {
		return nil, err
	}

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Files:     repo.NewCardFileRepository(db, logger),
		Jobs:      repo.NewScanJobRepository(db, logger),
		Contacts:  repo.NewContactRepository(db, logger),
		Extractor: ex,
	}

	var ocrStage *pipeline.OCRStage
	if withOCR {
		tx, err := extract.New(cfg.OCR, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		ocrStage = pipeline.NewOCRStage(a.Files, a.Jobs, tx, logger)
	}
	parseStage := pipeline.NewParseStage(logger, a.Jobs, a.Contacts, ex)
	a.Processor = pipeline.NewProcessor(logger, a.Jobs, ocrStage, parseStage)
	a.Ingestor = ingest.NewFSIngestor(a.Files, filepath.Join(cfg.OCR.ArtifactCacheDir, "uploads"), logger)
	a.Exporter = export.NewService(a.Contacts, logger)

	logger.Info("app.ready",
		"dialect", db.Dialect().String(),
		"ocr_provider", ocrProvider(cfg, withOCR),
		"lexicon_version", ex.LexiconVersion(),
	)
	return a, nil
}

func ocrProvider(cfg *common.Config, withOCR bool) string {
	if !withOCR {
		return "none"
	}
	return cfg.OCR.Provider
}

// Close releases the database handle.
func (a *App) Close() {
	server.CloseDB(a.DB, a.Logger)
}
