package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/joseph-ayodele/card-scanner/internal/common"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	stdout map[string]string // "stdout" or "tsv" run
	err    error
	onRun  func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun(name, args)
	}
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	key := "stdout"
	if args[len(args)-1] == "tsv" {
		key = "tsv"
	}
	return []byte(f.stdout[key]), nil, nil
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

const cardText = "John Tan\n\n\n\nSales  Manager\t\n-----\nTel: 012-345 6789\r\njohn@acme.com\n"

func TestExtract_Image(t *testing.T) {
	path := writePNG(t, t.TempDir(), "card.png", 40, 20)
	r := &fakeRunner{stdout: map[string]string{
		"stdout": cardText,
		"tsv": "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
			"1\t1\t0\t0\t0\t0\t0\t0\t40\t20\t-1\t\n" +
			"5\t1\t1\t1\t1\t1\t0\t0\t10\t5\t90\tJohn\n" +
			"5\t1\t1\t1\t1\t2\t12\t0\t10\t5\t70\tTan\n",
	}}
	e := NewExtractor(Config{TesseractLang: "eng+msa", PSM: 4, EnableTSVConfidence: true}, nil, WithRunner(r))

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "John Tan\n\nSales Manager\nTel: 012-345 6789\njohn@acme.com", res.Text)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "eng+msa", res.Language)

	require.Len(t, r.calls, 2)
	assert.Equal(t, "tesseract", r.calls[0].name)
	assert.Equal(t, []string{path, "stdout", "-l", "eng+msa", "--psm", "4"}, r.calls[0].args)
	assert.Equal(t, "tsv", r.calls[1].args[len(r.calls[1].args)-1])

	want := BlendConfidence(0.8, HeuristicConfidence(res.Text))
	assert.InDelta(t, want, res.Confidence, 0.0001)
}

func TestExtract_Errors(t *testing.T) {
	e := NewExtractor(Config{}, nil, WithRunner(&fakeRunner{}))
	_, err := e.Extract(context.Background(), "/cards/card.pdf")
	assert.ErrorContains(t, err, "unsupported extension")

	path := writePNG(t, t.TempDir(), "card.png", 10, 10)
	failing := NewExtractor(Config{}, nil, WithRunner(&fakeRunner{err: errors.New("exit status 1")}))
	res, err := failing.Extract(context.Background(), path)
	assert.ErrorContains(t, err, "tesseract")
	assert.Contains(t, res.Warnings, "boom")
}

func TestExtract_HEICUsesCache(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "card.heic")
	require.NoError(t, os.WriteFile(src, []byte("not really heic"), 0o644))
	cacheDir := filepath.Join(dir, "cache")

	r := &fakeRunner{stdout: map[string]string{"stdout": "John Tan"}}
	r.onRun = func(name string, args []string) {
		if name == "magick" {
			writePNG(t, filepath.Dir(args[1]), filepath.Base(args[1]), 8, 8)
		}
	}
	e := NewExtractor(Config{HeicConverter: "magick", ArtifactCacheDir: cacheDir}, nil, WithRunner(r))
	ctx := WithContentHash(context.Background(), "abc123")

	for i := 0; i < 2; i++ {
		res, err := e.Extract(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, "John Tan", res.Text)
	}
	assert.FileExists(t, filepath.Join(cacheDir, "abc123.png"))

	conversions := 0
	for _, c := range r.calls {
		if c.name == "magick" {
			conversions++
		}
	}
	assert.Equal(t, 1, conversions, "second run reuses the cached png")
}

func TestConvertHEIC_UnknownConverter(t *testing.T) {
	_, _, cleanup, err := convertHEICtoPNG(context.Background(), &fakeRunner{}, slog.Default(), "gimp", "in.heic", "", "")
	assert.Nil(t, cleanup)
	assert.ErrorContains(t, err, "HEIC not supported")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "a b\n\nc", Normalize("a   b\r\n\r\n\r\n\r\nc  "))
	assert.Equal(t, "Tel: 03-2161 0123", Normalize("Tel:\t03-2161 0123"), "digits untouched")
	assert.Equal(t, "x\ny", Normalize("x\n=====\ny"))
}

func TestMeanTSVConfidence(t *testing.T) {
	assert.Equal(t, float32(0), meanTSVConfidence(""))
	assert.Equal(t, float32(0), meanTSVConfidence("header\n1\t2\n"))
	tsv := "h\n" + strings.Repeat("5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t50\tw\n", 3)
	assert.InDelta(t, 0.5, meanTSVConfidence(tsv), 0.0001)
}

func TestHeuristicConfidence(t *testing.T) {
	low := HeuristicConfidence("blurry")
	high := HeuristicConfidence("John Tan\nTel: 012-345 6789\njohn@acme.com\nwww.acme.com and a long enough tail")
	assert.InDelta(t, 0.2, low, 0.0001)
	assert.Greater(t, high, low)
	assert.LessOrEqual(t, high, float32(1))

	assert.Equal(t, float32(0.5), BlendConfidence(0, 0.5))
	assert.InDelta(t, 0.7*0.9+0.3*0.5, BlendConfidence(0.9, 0.5), 0.0001)
}

func TestPrepareImage(t *testing.T) {
	dir := t.TempDir()

	small := writePNG(t, dir, "small.png", 30, 10)
	out, cleanup, err := PrepareImage(small, 100)
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, small, out, "native format within bounds is untouched")

	big := writePNG(t, dir, "big.png", 400, 200)
	out, cleanup, err = PrepareImage(big, 100)
	require.NoError(t, err)
	defer cleanup()
	assert.NotEqual(t, big, out)
	assert.Equal(t, image.Point{X: 100, Y: 50}, decodeSize(t, out))

	bmpPath := filepath.Join(dir, "card.bmp")
	f, err := os.Create(bmpPath)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 12, 6))))
	require.NoError(t, f.Close())
	out, cleanup, err = PrepareImage(bmpPath, 0)
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, ".png", filepath.Ext(out))
	assert.Equal(t, image.Point{X: 12, Y: 6}, decodeSize(t, out))

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("nope"), 0o644))
	_, cleanup, err = PrepareImage(junk, 100)
	assert.Error(t, err)
	assert.NotNil(t, cleanup)
}

func TestDownscale(t *testing.T) {
	tall := image.NewRGBA(image.Rect(0, 0, 50, 200))
	assert.Equal(t, image.Pt(25, 100), Downscale(tall, 100).Bounds().Size())
	assert.Same(t, tall, Downscale(tall, 0))
}

func decodeSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestExecRunner_Errors(t *testing.T) {
	r := execRunner{timeout: time.Second}

	_, _, err := r.Run(context.Background(), "definitely-not-a-tesseract-binary", slog.Default())
	var ee *ExecError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, -1, ee.ExitCode)
	assert.ErrorIs(t, err, common.ErrOCR)

	if _, lookErr := exec.LookPath("sh"); lookErr != nil {
		t.Skip("sh not available")
	}
	_, stderr, err := r.Run(context.Background(), "sh", slog.Default(), "-c", "echo bad image >&2; exit 3")
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.ExitCode)
	assert.Equal(t, "bad image", ee.Stderr)
	assert.Equal(t, "bad image\n", string(stderr))
	assert.EqualError(t, err, "sh failed (exit 3): bad image")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n", 10))
	assert.Equal(t, "...6789", tail("0123456789", 4))
}
