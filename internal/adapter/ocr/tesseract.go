//go:build tesseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"partscan/internal/domain"
	"partscan/internal/port"
)

// TesseractEngine runs recognition locally through libtesseract. It is only
// compiled with the "tesseract" build tag.
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine creates an engine for the given tesseract language codes.
func NewTesseractEngine(languages []string) (*TesseractEngine, error) {
	return &TesseractEngine{
		languages:     languages,
		clientFactory: gosseract.NewClient,
	}, nil
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, img domain.PageImage) (domain.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recognition{}, err
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(img.PNG); err != nil {
		return domain.Recognition{}, fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return domain.Recognition{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if img.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(img.DPI)); err != nil {
			return domain.Recognition{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	// sparse text suits labels scattered over a drawing
	if err := c.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return domain.Recognition{}, fmt.Errorf("set page segmentation: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("recognize text: %w", err)
	}

	var words []string
	if boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		for _, b := range boxes {
			words = append(words, b.Word)
		}
	}

	return newRecognition(e.Name(), text, words), nil
}

var _ port.OCREngine = (*TesseractEngine)(nil)
