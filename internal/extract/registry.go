package extract

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/ocr"
	"github.com/joseph-ayodele/card-scanner/internal/ocr/remote"
)

// RecognizerFactory builds an in-process recognizer from OCR configuration.
type RecognizerFactory func(cfg common.OCRConfig, logger *slog.Logger) (ImageRecognizer, error)

var (
	registryMu  sync.RWMutex
	recognizers = map[string]RecognizerFactory{}
)

// RegisterRecognizer makes a recognizer selectable through OCR_PROVIDER.
// Engines that need cgo register themselves from init behind a build tag.
func RegisterRecognizer(name string, f RecognizerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	recognizers[name] = f
}

func LookupRecognizer(name string) (RecognizerFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := recognizers[name]
	return f, ok
}

// Recognizers lists registered recognizer names.
func Recognizers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(recognizers))
	for n := range recognizers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the TextExtractor selected by cfg.Provider.
func New(cfg common.OCRConfig, logger *slog.Logger) (TextExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	prep := ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.Tesseract,
		TesseractLang:       cfg.Lang,
		TessdataDir:         cfg.TessdataDir,
		PSM:                 4,
		OEM:                 1,
		EnableTSVConfidence: true,
		HeicConverter:       cfg.HeicConverter,
		ArtifactCacheDir:    cfg.ArtifactCacheDir,
		MaxImageDim:         cfg.MaxImageDim,
	}, logger)

	switch cfg.Provider {
	case "", "tesseract":
		return NewOCRAdapter(prep, logger), nil
	case "remote":
		c, err := remote.NewClient(remote.Config{
			Endpoint: cfg.RemoteEndpoint,
			APIKey:   cfg.RemoteAPIKey,
			Timeout:  cfg.RemoteTimeout,
		}, nil, logger)
		if err != nil {
			return nil, err
		}
		return NewImageAdapter("remote-ocr", c, prep, "", logger), nil
	default:
		f, ok := LookupRecognizer(cfg.Provider)
		if !ok {
			return nil, common.NewAppError("CONFIG_ERROR",
				fmt.Sprintf("ocr provider %q not available (registered: %v)", cfg.Provider, Recognizers()),
				common.ErrInvalidInput)
		}
		rec, err := f(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init %s: %w", cfg.Provider, err)
		}
		return NewImageAdapter(cfg.Provider, rec, prep, cfg.Lang, logger), nil
	}
}
