//go:build gosseract

package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/extract"
)

func init() {
	extract.RegisterRecognizer("gosseract", func(cfg common.OCRConfig, logger *slog.Logger) (extract.ImageRecognizer, error) {
		return NewEngine(cfg.Lang, cfg.TessdataDir, logger), nil
	})
}

// Engine recognizes card images with a fresh gosseract client per call.
type Engine struct {
	languages     []string
	tessdata      string
	clientFactory func() *gosseract.Client
	logger        *slog.Logger
}

// NewEngine takes tesseract's "eng+msa" language syntax.
func NewEngine(lang, tessdata string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	var langs []string
	for _, l := range strings.Split(lang, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return &Engine{
		languages:     langs,
		tessdata:      tessdata,
		clientFactory: gosseract.NewClient,
		logger:        logger,
	}
}

func (e *Engine) Name() string { return "gosseract" }

func (e *Engine) Recognize(ctx context.Context, image []byte) (string, float32, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	c := e.clientFactory()
	defer c.Close()

	if e.tessdata != "" {
		c.TessdataPrefix = e.tessdata
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", 0, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_COLUMN); err != nil {
		return "", 0, fmt.Errorf("set psm: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", 0, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", 0, fmt.Errorf("%w: recognize text: %w", common.ErrOCR, err)
	}
	conf := meanWordConfidence(c)
	e.logger.Debug("gosseract.ok", "chars", len(text), "confidence", conf)
	return strings.TrimSpace(text), conf, nil
}

func meanWordConfidence(c *gosseract.Client) float32 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return float32(sum/float64(len(boxes))) / 100
}
