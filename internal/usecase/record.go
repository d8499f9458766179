package usecase

import (
	"errors"
	"fmt"
	"time"

	"partscan/internal/domain"
	"partscan/internal/port"
)

// RecordPage extracts parts from text that was recognized elsewhere and
// stores it as page of the document id, growing the document's page count
// as needed.
func RecordPage(st port.ResultStore, extractor port.PartExtractor, id string, page int, text, engine string) (domain.PageResult, error) {
	if page < 1 {
		return domain.PageResult{}, fmt.Errorf("page must be 1 or greater, got %d", page)
	}

	doc, err := st.GetDoc(id)
	if errors.Is(err, domain.ErrNotFound) {
		doc = domain.Document{ID: id, Path: id, ModTime: time.Now()}
	} else if err != nil {
		return domain.PageResult{}, fmt.Errorf("failed to read document: %w", err)
	}
	doc.PageCount = max(doc.PageCount, page)
	if err := st.PutDoc(doc); err != nil {
		return domain.PageResult{}, fmt.Errorf("failed to store document: %w", err)
	}

	result := domain.PageResult{
		DocID:     id,
		Page:      page,
		Parts:     extractor.Extract(text),
		Engine:    engine,
		TextLen:   len(text),
		ScannedAt: time.Now(),
	}
	if err := st.PutPage(result); err != nil {
		return domain.PageResult{}, fmt.Errorf("failed to store page %d: %w", page, err)
	}
	return result, nil
}
