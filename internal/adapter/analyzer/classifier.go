package analyzer

import (
	"strings"

	"partscan/internal/port"
)

const (
	// CommonWordThreshold is the Zipf score at or above which a digit-free
	// token is treated as ordinary English prose.
	CommonWordThreshold = 4.0

	// OracleLanguage is the language the commonness oracle is queried in.
	OracleLanguage = "en"
)

// Classifier decides whether an uppercase candidate is a part reference.
type Classifier struct {
	stopwords StopwordSet
	oracle    port.FrequencyOracle
}

// NewClassifier creates a classifier. A nil oracle disables the common-word check.
func NewClassifier(stopwords StopwordSet, oracle port.FrequencyOracle) *Classifier {
	if stopwords == nil {
		stopwords = StopwordSet{}
	}
	return &Classifier{
		stopwords: stopwords,
		oracle:    oracle,
	}
}

// Keep reports whether token survives the stopword and common-word filters.
func (c *Classifier) Keep(token string) bool {
	if c.stopwords.Contains(token) {
		return false
	}
	return !c.IsCommonWord(token)
}

// IsCommonWord reports whether token reads as ordinary English. Tokens with a
// digit are never common. Oracle errors count as "not common".
func (c *Classifier) IsCommonWord(token string) bool {
	if hasDigit(token) || c.oracle == nil {
		return false
	}
	score, err := c.oracle.Score(strings.ToLower(token), OracleLanguage)
	if err != nil {
		return false
	}
	return score >= CommonWordThreshold
}

func hasDigit(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] >= '0' && token[i] <= '9' {
			return true
		}
	}
	return false
}
