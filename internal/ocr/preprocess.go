package ocr

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// formats tesseract reads reliably on every build
var tesseractNative = map[string]bool{"png": true, "jpeg": true, "tiff": true}

// PrepareImage makes path safe to hand to tesseract: formats it may not read
// are re-encoded as PNG and images whose longest side exceeds maxDim are
// downscaled. Otherwise path is returned as is. cleanup is never nil.
func PrepareImage(path string, maxDim int) (string, func(), error) {
	noop := func() {}
	f, err := os.Open(path)
	if err != nil {
		return "", noop, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", noop, fmt.Errorf("decode config: %w", err)
	}
	scale := maxDim > 0 && max(cfg.Width, cfg.Height) > maxDim
	if tesseractNative[format] && !scale {
		return path, noop, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return "", noop, err
	}
	src, _, err := image.Decode(f)
	if err != nil {
		return "", noop, fmt.Errorf("decode %s: %w", format, err)
	}
	var dst image.Image = src
	if scale {
		dst = Downscale(src, maxDim)
	}

	tmp, err := os.CreateTemp("", "cardscan-prep-*.png")
	if err != nil {
		return "", noop, err
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if err := png.Encode(tmp, dst); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, err
	}
	return tmp.Name(), cleanup, nil
}

// Downscale resizes img so its longest side is maxDim, keeping the aspect ratio.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
