// Package ocr holds the engines that turn a rendered page into text. Engines
// report pages without text as domain.NoTextFound and normalize their output
// to NFKC so full-width digits and letters reach the extractor as ASCII.
package ocr

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
	"partscan/internal/domain"
)

// ErrNoAPIKey is returned when a cloud engine's key variable is unset.
var ErrNoAPIKey = errors.New("API key not found in environment variable")

// ErrTesseractDisabled is returned when the binary was built without the
// "tesseract" build tag.
var ErrTesseractDisabled = errors.New("tesseract support not compiled in; rebuild with -tags tesseract")

// CleanText applies NFKC normalization and trims surrounding whitespace.
func CleanText(text string) string {
	return strings.TrimSpace(norm.NFKC.String(text))
}

func newRecognition(engine, text string, words []string) domain.Recognition {
	text = CleanText(text)
	if text == "" {
		text = domain.NoTextFound
	}
	rec := domain.Recognition{Text: text, Engine: engine}
	for _, w := range words {
		w = CleanText(w)
		if w != "" {
			rec.Words = append(rec.Words, domain.Word{Text: w})
		}
	}
	return rec
}
