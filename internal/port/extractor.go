package port

// PartExtractor turns raw OCR text into a sorted, deduplicated list of part references.
type PartExtractor interface {
	Extract(text string) []string
}
