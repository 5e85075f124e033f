//go:build !ocr

// Package ocr adapts scanned page images to the geometry.Source contract.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// Pages returns ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"errors"
	"image"

	"github.com/jherrick/marlens/geometry"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ImageSource is the stub source; Pages always fails.
type ImageSource struct {
	Images   []image.Image
	Language string
}

// Pages returns ErrOCRNotEnabled.
func (s *ImageSource) Pages(ctx context.Context) ([]geometry.Page, error) {
	return nil, ErrOCRNotEnabled
}
