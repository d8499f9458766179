package analyzer

import (
	"sort"

	"partscan/internal/port"
)

// Extractor runs tokenize, classify and normalize over a block of OCR text.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	tokenizer  *Tokenizer
	classifier *Classifier
}

// NewExtractor creates an extractor over the given stopwords and oracle.
func NewExtractor(stopwords StopwordSet, oracle port.FrequencyOracle) *Extractor {
	return &Extractor{
		tokenizer:  NewTokenizer(),
		classifier: NewClassifier(stopwords, oracle),
	}
}

// NewDefaultExtractor uses the built-in stopword list.
func NewDefaultExtractor(oracle port.FrequencyOracle) *Extractor {
	return NewExtractor(DefaultStopwords(), oracle)
}

// Extract returns the unique part references in text, sorted bytewise.
// Filtering sees the token before normalization; the normalized form is not
// filtered again.
func (e *Extractor) Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, token := range e.tokenizer.Tokenize(text) {
		if !e.classifier.Keep(token) {
			continue
		}
		seen[Normalize(token)] = struct{}{}
	}

	parts := make([]string, 0, len(seen))
	for p := range seen {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	return parts
}

var _ port.PartExtractor = (*Extractor)(nil)
