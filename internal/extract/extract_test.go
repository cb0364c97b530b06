package extract

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/ocr"
)

type fakeRecognizer struct {
	text string
	conf float32
	err  error
	got  []byte
}

func (f *fakeRecognizer) Recognize(_ context.Context, img []byte) (string, float32, error) {
	f.got = img
	return f.text, f.conf, f.err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card.png")
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestImageAdapter_Extract(t *testing.T) {
	path := writePNG(t, 20, 10)
	rec := &fakeRecognizer{text: "JOHN DOE  \n\n\nSales Manager\n"}
	a := NewImageAdapter("fake", rec, ocr.NewExtractor(ocr.Config{}, nil), "eng", nil)

	res, err := a.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "fake", res.Method)
	assert.Equal(t, "eng", res.Language)
	assert.Equal(t, "JOHN DOE\n\nSales Manager", res.Text)
	assert.NotEmpty(t, rec.got)
	assert.Greater(t, res.Confidence, float32(0), "heuristic confidence fills in when engine reports none")
}

func TestImageAdapter_KeepsEngineConfidence(t *testing.T) {
	rec := &fakeRecognizer{text: "x", conf: 0.42}
	a := NewImageAdapter("fake", rec, nil, "", nil)

	res, err := a.Extract(context.Background(), writePNG(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, float32(0.42), res.Confidence)
}

func TestImageAdapter_Errors(t *testing.T) {
	t.Run("recognizer failure", func(t *testing.T) {
		boom := errors.New("boom")
		a := NewImageAdapter("fake", &fakeRecognizer{err: boom}, nil, "", nil)
		_, err := a.Extract(context.Background(), writePNG(t, 4, 4))
		assert.ErrorIs(t, err, boom)
	})
	t.Run("unsupported extension", func(t *testing.T) {
		a := NewImageAdapter("fake", &fakeRecognizer{}, ocr.NewExtractor(ocr.Config{}, nil), "", nil)
		_, err := a.Extract(context.Background(), "card.pdf")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		a := NewImageAdapter("fake", &fakeRecognizer{}, nil, "", nil)
		_, err := a.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
		assert.Error(t, err)
	})
}

func TestNew_Providers(t *testing.T) {
	base := common.OCRConfig{Lang: "eng"}

	t.Run("tesseract", func(t *testing.T) {
		cfg := base
		cfg.Provider = "tesseract"
		te, err := New(cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &OCRAdapter{}, te)
	})
	t.Run("remote", func(t *testing.T) {
		cfg := base
		cfg.Provider = "remote"
		cfg.RemoteAPIKey = "k"
		te, err := New(cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &ImageAdapter{}, te)
	})
	t.Run("remote without key", func(t *testing.T) {
		cfg := base
		cfg.Provider = "remote"
		_, err := New(cfg, nil)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
	t.Run("unregistered", func(t *testing.T) {
		cfg := base
		cfg.Provider = "nope"
		_, err := New(cfg, nil)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
	t.Run("registered", func(t *testing.T) {
		RegisterRecognizer("fake-engine", func(common.OCRConfig, *slog.Logger) (ImageRecognizer, error) {
			return &fakeRecognizer{text: "hi"}, nil
		})
		cfg := base
		cfg.Provider = "fake-engine"
		te, err := New(cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &ImageAdapter{}, te)
		assert.Contains(t, Recognizers(), "fake-engine")
	})
}
