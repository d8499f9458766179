package analyzer

import (
	"errors"
	"testing"
)

type stubOracle map[string]float64

func (s stubOracle) Score(word, lang string) (float64, error) {
	return s[word], nil
}

type failingOracle struct{}

func (failingOracle) Score(word, lang string) (float64, error) {
	return 0, errors.New("oracle offline")
}

type recordingOracle struct {
	words []string
	langs []string
}

func (r *recordingOracle) Score(word, lang string) (float64, error) {
	r.words = append(r.words, word)
	r.langs = append(r.langs, lang)
	return 7, nil
}

func TestClassifier_Stopwords(t *testing.T) {
	c := NewClassifier(NewStopwordSet("pcb", "EAD63769504"), nil)

	if c.Keep("PCB") {
		t.Error("PCB is a stopword and should be rejected")
	}
	if c.Keep("EAD63769504") {
		t.Error("digit-bearing stopword should still be rejected")
	}
	if !c.Keep("EAD63769999") {
		t.Error("non-stopword should be kept")
	}
}

func TestClassifier_CommonWords(t *testing.T) {
	oracle := stubOracle{"the": 7.7, "gasket": 2.9, "frame": 4.0}
	c := NewClassifier(NewStopwordSet(), oracle)

	tests := []struct {
		token string
		keep  bool
	}{
		{"THE", false},
		{"FRAME", false},
		{"GASKET", true},
		{"MCK", true},
	}

	for _, tt := range tests {
		if got := c.Keep(tt.token); got != tt.keep {
			t.Errorf("Keep(%q) = %v, want %v", tt.token, got, tt.keep)
		}
	}
}

func TestClassifier_DigitExemption(t *testing.T) {
	oracle := &recordingOracle{}
	c := NewClassifier(NewStopwordSet(), oracle)

	if !c.Keep("AB12") {
		t.Error("digit-bearing token must never be judged common")
	}
	if len(oracle.words) != 0 {
		t.Errorf("oracle should not be consulted for digit tokens, got %v", oracle.words)
	}

	c.Keep("ABC")
	if len(oracle.words) != 1 || oracle.words[0] != "abc" || oracle.langs[0] != "en" {
		t.Errorf("expected lookup of (abc, en), got %v %v", oracle.words, oracle.langs)
	}
}

func TestClassifier_OracleFailureKeepsToken(t *testing.T) {
	c := NewClassifier(NewStopwordSet(), failingOracle{})

	if !c.Keep("GASKET") {
		t.Error("oracle failure should fail open")
	}
}

func TestStopwordSet_Fingerprint(t *testing.T) {
	a := NewStopwordSet("b", "a")
	b := NewStopwordSet("A", "B")
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint should not depend on order or case")
	}
	if a.Fingerprint() == NewStopwordSet("A").Fingerprint() {
		t.Error("fingerprint should change with contents")
	}
}

func TestDefaultStopwords(t *testing.T) {
	s := DefaultStopwords()
	for _, w := range []string{"PCB", "LG", "THE", "2020", "EAD64185904", "SCREW"} {
		if !s.Contains(w) {
			t.Errorf("expected %s in default stopwords", w)
		}
	}
	delete(s, "PCB")
	if !DefaultStopwords().Contains("PCB") {
		t.Error("DefaultStopwords should return an independent set")
	}
}
