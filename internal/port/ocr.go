package port

import (
	"context"

	"partscan/internal/domain"
)

// OCREngine recognizes text in a rendered page.
type OCREngine interface {
	// Recognize returns the full text of the page. Engines report an empty
	// page as domain.NoTextFound rather than an error.
	Recognize(ctx context.Context, img domain.PageImage) (domain.Recognition, error)

	// Name identifies the engine in logs and stored results.
	Name() string
}
