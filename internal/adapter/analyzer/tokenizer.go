package analyzer

import (
	"strings"
	"unicode"

	"partscan/internal/domain"
)

const (
	// MinTokenLen and MaxTokenLen bound the length of a candidate part reference.
	MinTokenLen = 2
	MaxTokenLen = 15
)

// Tokenizer scans OCR text for candidate part references.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize returns every candidate in text order, uppercased. Repeats are kept.
//
// A candidate is a whole word (a maximal run of letters, digits and
// underscores) made only of ASCII letters and digits, 2 to 15 long. Runs that
// are longer, or that touch an underscore or a non-ASCII letter, are not
// split into smaller candidates.
func (t *Tokenizer) Tokenize(text string) []string {
	if isNoText(text) {
		return nil
	}

	words := splitWords(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if len(word) < MinTokenLen || len(word) > MaxTokenLen {
			continue
		}
		if !isASCIIAlnum(word) {
			continue
		}
		tokens = append(tokens, strings.ToUpper(word))
	}

	return tokens
}

func isNoText(text string) bool {
	text = strings.TrimSpace(text)
	return text == "" || strings.EqualFold(text, domain.NoTextFound)
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func isASCIIAlnum(word string) bool {
	for i := 0; i < len(word); i++ {
		c := word[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
