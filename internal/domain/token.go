package domain

import "github.com/google/uuid"

// TokenKind classifies one segmented unit of a sentence.
type TokenKind string

const (
	TokenKindWord   TokenKind = "word"
	TokenKindPunct  TokenKind = "punct"
	TokenKindLatin  TokenKind = "latin"
	TokenKindNumber TokenKind = "number"
	TokenKindSpace  TokenKind = "space"
)

// Valid reports whether k is one of the known token kinds.
func (k TokenKind) Valid() bool {
	switch k {
	case TokenKindWord, TokenKindPunct, TokenKindLatin, TokenKindNumber, TokenKindSpace:
		return true
	}
	return false
}

// Token is one segmented unit of a sentence, ordered by its 1-based Index.
// LemmaID is nil when the text matched no dictionary headword, including
// after the per-character fallback.
type Token struct {
	ID         uuid.UUID
	SentenceID uuid.UUID
	Index      int
	Text       string
	Kind       TokenKind
	LemmaID    *uuid.UUID
}
