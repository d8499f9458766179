package memstore

import (
	"fmt"
	"sort"
	"sync"

	"partscan/internal/domain"
	"partscan/internal/port"
)

// MemoryStore is a ResultStore kept entirely in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	pages map[string]map[int]domain.PageResult
	runs  map[string][]domain.ScanRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]domain.Document),
		pages: make(map[string]map[int]domain.PageResult),
		runs:  make(map[string][]domain.ScanRun),
	}
}

func (s *MemoryStore) PutDoc(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

func (s *MemoryStore) GetDoc(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (s *MemoryStore) ListDocs() ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (s *MemoryStore) DeleteDoc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	delete(s.pages, id)
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) PutPage(result domain.PageResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pages[result.DocID] == nil {
		s.pages[result.DocID] = make(map[int]domain.PageResult)
	}
	result.Parts = append([]string{}, result.Parts...)
	result.Reused = false
	s.pages[result.DocID][result.Page] = result
	return nil
}

func (s *MemoryStore) GetPage(docID string, page int) (domain.PageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.pages[docID][page]
	if !ok {
		return domain.PageResult{}, fmt.Errorf("page %d of %s: %w", page, docID, domain.ErrNotFound)
	}
	return result, nil
}

func (s *MemoryStore) GetPagesByDoc(docID string) ([]domain.PageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.PageResult, 0, len(s.pages[docID]))
	for _, r := range s.pages[docID] {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })
	return results, nil
}

func (s *MemoryStore) PutRun(run domain.ScanRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.DocID] = append(s.runs[run.DocID], run)
	return nil
}

func (s *MemoryStore) ListRuns(docID string) ([]domain.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var runs []domain.ScanRun
	if docID != "" {
		runs = append(runs, s.runs[docID]...)
	} else {
		for _, r := range s.runs {
			runs = append(runs, r...)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	return runs, nil
}

// Clear drops everything.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]domain.Document)
	s.pages = make(map[string]map[int]domain.PageResult)
	s.runs = make(map[string][]domain.ScanRun)
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ port.ResultStore = (*MemoryStore)(nil)
