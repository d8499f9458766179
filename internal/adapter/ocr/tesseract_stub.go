//go:build !tesseract

package ocr

import (
	"context"

	"partscan/internal/domain"
	"partscan/internal/port"
)

// TesseractEngine is a placeholder that always fails.
type TesseractEngine struct{}

func NewTesseractEngine(languages []string) (*TesseractEngine, error) {
	return nil, ErrTesseractDisabled
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, img domain.PageImage) (domain.Recognition, error) {
	return domain.Recognition{}, ErrTesseractDisabled
}

var _ port.OCREngine = (*TesseractEngine)(nil)
