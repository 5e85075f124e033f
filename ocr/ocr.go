//go:build ocr

// Package ocr adapts scanned page images to the geometry.Source contract.
//
// It wraps the Tesseract engine via gosseract and requires Tesseract to be
// installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// OCR recovers word-level tokens only; vector marks are not available from
// raster pages, so the discontinued signal for scanned documents relies on
// the textual X marker.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/tiff"

	"github.com/jherrick/marlens/geometry"
	"github.com/jherrick/marlens/model"
)

// ImageSource turns one raster image per page into positioned tokens.
type ImageSource struct {
	Images []image.Image

	// Language selects the recognition language. Multiple languages can be
	// "+" separated (e.g. "eng+fra"). Empty means Tesseract's default.
	Language string
}

// Pages recognizes every page image and returns word-level tokens with
// their bounding boxes in image pixel coordinates.
func (s *ImageSource) Pages(ctx context.Context) ([]geometry.Page, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if s.Language != "" {
		if err := client.SetLanguage(s.Language); err != nil {
			return nil, fmt.Errorf("setting OCR language: %w", err)
		}
	}

	pages := make([]geometry.Page, 0, len(s.Images))
	for i, img := range s.Images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := tiff.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("page %d: encoding image: %w", i, err)
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("page %d: setting image: %w", i, err)
		}

		boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
		if err != nil {
			return nil, fmt.Errorf("page %d: recognizing: %w", i, err)
		}

		bounds := img.Bounds()
		page := geometry.Page{
			Index:  i,
			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		}
		for _, b := range boxes {
			word := strings.TrimSpace(b.Word)
			if word == "" {
				continue
			}
			page.Tokens = append(page.Tokens, model.Token{
				Text: word,
				BBox: model.NewBBox(
					float64(b.Box.Min.X), float64(b.Box.Min.Y),
					float64(b.Box.Max.X), float64(b.Box.Max.Y),
				),
				Page: i,
			})
		}
		pages = append(pages, page)
	}
	return pages, nil
}
