//go:build gosseract

package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/card-scanner/internal/extract"
)

func TestRegistered(t *testing.T) {
	_, ok := extract.LookupRecognizer("gosseract")
	assert.True(t, ok)
}

func TestNewEngine_SplitsLanguages(t *testing.T) {
	e := NewEngine("eng+ msa+", "", nil)
	assert.Equal(t, []string{"eng", "msa"}, e.languages)
}

func TestRecognize_BlankImage(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed")
	}
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	text, _, err := NewEngine("eng", "", nil).Recognize(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, text)
}
