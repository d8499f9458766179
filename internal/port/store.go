package port

import "partscan/internal/domain"

// ResultStore persists scanned documents and their per-page results.
type ResultStore interface {
	PutDoc(doc domain.Document) error

	GetDoc(id string) (domain.Document, error)

	ListDocs() ([]domain.Document, error)

	DeleteDoc(id string) error

	PutPage(result domain.PageResult) error

	GetPage(docID string, page int) (domain.PageResult, error)

	GetPagesByDoc(docID string) ([]domain.PageResult, error)

	PutRun(run domain.ScanRun) error

	ListRuns(docID string) ([]domain.ScanRun, error)

	Close() error
}
