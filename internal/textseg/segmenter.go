package textseg

// Segmenter splits a sentence into ordered substrings at word boundaries.
// Implementations may emit punctuation and whitespace as their own
// substrings; classification happens in the Tokenizer, not here.
//
// The Tokenizer works without a Segmenter (nil): it then falls back to a
// deterministic character-class scanner.
type Segmenter interface {
	Segment(text string) []string
}
