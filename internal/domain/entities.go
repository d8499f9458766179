package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a document or page is not stored.
var ErrNotFound = errors.New("not found")

// NoTextFound is the text an OCR engine reports when a page yields nothing.
const NoTextFound = "NO TEXT FOUND"

// Document is a PDF that has been scanned at least once.
type Document struct {
	ID        string
	Path      string
	PageCount int
	ModTime   time.Time
}

// PageImage is one rasterized page. Index is zero-based.
type PageImage struct {
	Index    int
	DPI      int
	Width    int
	Height   int
	PNG      []byte
	TIFFPath string
}

// Number returns the 1-based page number.
func (p PageImage) Number() int {
	return p.Index + 1
}

// Word is a single recognized token as reported by an OCR engine.
type Word struct {
	Text string
}

type Recognition struct {
	Text   string
	Words  []Word
	Engine string
}

// PageResult holds the part references found on one page.
type PageResult struct {
	DocID     string    `json:"doc_id"`
	Page      int       `json:"page"`
	Parts     []string  `json:"parts"`
	TIFFPath  string    `json:"tiff_path,omitempty"`
	Engine    string    `json:"engine"`
	TextLen   int       `json:"text_len"`
	ScannedAt time.Time `json:"scanned_at"`
	Reused    bool      `json:"reused,omitempty"`
}

// ScanRun records a single invocation of the scan pipeline over a document.
type ScanRun struct {
	ID         string    `json:"id"`
	DocID      string    `json:"doc_id"`
	Path       string    `json:"path"`
	Pages      []int     `json:"pages"`
	Engine     string    `json:"engine"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Errors     []string  `json:"errors,omitempty"`
}
