package port

import (
	"context"

	"partscan/internal/domain"
)

// Rasterizer renders PDF pages into images.
type Rasterizer interface {
	// PageCount returns the number of pages in the document.
	PageCount(path string) (int, error)

	// Rasterize renders the zero-based page index at the given resolution.
	Rasterize(ctx context.Context, path string, index int, dpi int) (domain.PageImage, error)
}
