package frequency

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

//go:embed zipf_en.txt
var englishZipfTable string

// ErrUnsupportedLanguage is returned for languages without a frequency table.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// MinZipf is reported for words not in the table.
const MinZipf = 0.0

// ZipfOracle looks up word commonness on the Zipf scale, the base-10 log of
// a word's occurrences per billion words. 4.0 is ten per million.
type ZipfOracle struct {
	scores map[string]map[string]float64
}

// NewZipfOracle loads the embedded English table.
func NewZipfOracle() *ZipfOracle {
	o := &ZipfOracle{scores: make(map[string]map[string]float64)}
	o.AddLanguage("en", englishZipfTable)
	return o
}

// AddLanguage registers a table of "word zipf" lines for lang, replacing any
// previous table. Blank lines, '#' comments and malformed lines are skipped.
// A word listed twice keeps its highest score.
func (o *ZipfOracle) AddLanguage(lang, table string) {
	scores := make(map[string]float64)
	for _, line := range strings.Split(table, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		zipf, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || zipf < MinZipf {
			continue
		}
		word := strings.ToLower(fields[0])
		if prev, dup := scores[word]; !dup || zipf > prev {
			scores[word] = zipf
		}
	}
	o.scores[lang] = scores
}

// Score returns the Zipf score of word in lang.
func (o *ZipfOracle) Score(word, lang string) (float64, error) {
	scores, ok := o.scores[lang]
	if !ok {
		return MinZipf, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	zipf, ok := scores[strings.ToLower(word)]
	if !ok {
		return MinZipf, nil
	}
	return zipf, nil
}

// Size returns the number of words known for lang.
func (o *ZipfOracle) Size(lang string) int {
	return len(o.scores[lang])
}
