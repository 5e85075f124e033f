//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestPagesReturnsError(t *testing.T) {
	src := &ImageSource{}
	pages, err := src.Pages(context.Background())
	if err == nil {
		t.Error("expected error from Pages when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got: %v", err)
	}
	if pages != nil {
		t.Error("expected nil pages when OCR is disabled")
	}
}
