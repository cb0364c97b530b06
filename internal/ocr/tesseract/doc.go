// Package tesseract provides an in-process OCR engine backed by libtesseract
// through gosseract. It needs cgo and the tesseract headers, so the engine is
// only compiled with -tags gosseract; importing the package without the tag
// registers nothing.
package tesseract
