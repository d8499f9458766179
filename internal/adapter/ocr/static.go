package ocr

import (
	"context"

	"partscan/internal/domain"
	"partscan/internal/port"
)

// StaticEngine returns preset text per zero-based page index. It backs tests
// and offline runs where the text is already known.
type StaticEngine struct {
	pages    map[int]string
	fallback string
}

func NewStaticEngine(pages map[int]string, fallback string) *StaticEngine {
	return &StaticEngine{pages: pages, fallback: fallback}
}

func (e *StaticEngine) Name() string { return "static" }

func (e *StaticEngine) Recognize(ctx context.Context, img domain.PageImage) (domain.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recognition{}, err
	}
	text, ok := e.pages[img.Index]
	if !ok {
		text = e.fallback
	}
	return newRecognition(e.Name(), text, nil), nil
}

var _ port.OCREngine = (*StaticEngine)(nil)
