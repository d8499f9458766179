package port

// FrequencyOracle scores how common a word is in ordinary text for a language.
type FrequencyOracle interface {
	// Score returns a commonness score on the Zipf scale (0 rare .. 7 ubiquitous).
	Score(word, lang string) (float64, error)
}
