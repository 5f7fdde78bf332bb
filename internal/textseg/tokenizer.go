package textseg

import (
	"strings"
	"unicode"

	"github.com/mchales/huistack-backend/internal/domain"
)

// punctuationChars is the fixed set used to classify punct tokens.
// Covers common CJK and ASCII punctuation.
const punctuationChars = "，。！？；：、（）《》“”‘’—…·,.;:!?()[]\"'"

// Piece is one tokenized unit before persistence: text plus its kind.
type Piece struct {
	Text string
	Kind domain.TokenKind
}

// Tokenizer splits one sentence into classified pieces. With a Segmenter
// it delegates word-boundary detection to the dictionary; without one it
// uses a single-pass character-class scanner. Either way every character
// of the input belongs to exactly one emitted piece.
type Tokenizer struct {
	segmenter Segmenter
}

// NewTokenizer creates a Tokenizer. segmenter may be nil.
func NewTokenizer(segmenter Segmenter) *Tokenizer {
	return &Tokenizer{segmenter: segmenter}
}

// Tokenize splits text into ordered (text, kind) pieces. It never fails
// on valid string input; empty input yields no pieces.
func (t *Tokenizer) Tokenize(text string) []Piece {
	var raw []string
	if t.segmenter != nil {
		raw = t.segmenter.Segment(text)
	} else {
		raw = scan(text)
	}

	pieces := make([]Piece, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		pieces = append(pieces, Piece{Text: s, Kind: Classify(s)})
	}
	return pieces
}

// Classify assigns a kind to a candidate substring. Order matters:
// whitespace, then punctuation, then digits, then ASCII alnum, then word.
func Classify(s string) domain.TokenKind {
	switch {
	case isAllSpace(s):
		return domain.TokenKindSpace
	case isAllPunct(s):
		return domain.TokenKindPunct
	case isAllDigit(s):
		return domain.TokenKindNumber
	case isAllASCIIAlnum(s):
		return domain.TokenKindLatin
	default:
		return domain.TokenKindWord
	}
}

// scan is the fallback path: whitespace runs become one piece, maximal
// ASCII letter/digit runs become one piece, anything else is emitted as
// a single rune.
func scan(text string) []string {
	var (
		out []string
		buf strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}

	var mode rune // 's' space run, 'a' ascii alnum run, 0 none
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if mode != 's' {
				flush()
				mode = 's'
			}
			buf.WriteRune(r)
		case isASCIIAlnum(r):
			if mode != 'a' {
				flush()
				mode = 'a'
			}
			buf.WriteRune(r)
		default:
			flush()
			mode = 0
			out = append(out, string(r))
		}
	}
	flush()

	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isAllSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return s != ""
}

func isAllPunct(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(punctuationChars, r) {
			return false
		}
	}
	return s != ""
}

func isAllDigit(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isAllASCIIAlnum(s string) bool {
	for _, r := range s {
		if !isASCIIAlnum(r) {
			return false
		}
	}
	return s != ""
}
