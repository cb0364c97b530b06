package ingest

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/card-scanner/constants"
)

// AllowedExt checks if a file extension is an accepted card image.
func AllowedExt(ext string) bool {
	return constants.IsImageExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && strings.HasPrefix(base, ".")
}

// heicBrands are the ftyp brands of HEIF stills.
var heicBrands = [][]byte{[]byte("heic"), []byte("heix"), []byte("mif1"), []byte("msf1"), []byte("heif")}

// SniffExt guesses an image extension from content, for uploads without a
// usable filename. Returns "" when the bytes are not a known image.
func SniffExt(data []byte) string {
	if len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) {
		for _, b := range heicBrands {
			if bytes.Equal(data[8:12], b) {
				return "heic"
			}
		}
	}
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	}
	if len(data) >= 4 && (bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*"))) {
		return "tiff"
	}
	return ""
}
