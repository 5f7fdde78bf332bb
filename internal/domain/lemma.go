package domain

import "github.com/google/uuid"

// Lemma is one dictionary headword (traditional/simplified pair with
// its canonical pinyin).
type Lemma struct {
	ID            uuid.UUID
	Traditional   string
	Simplified    string
	PinyinNumbers string
	Meta          map[string]string
}

// LemmaRef is the transient result of a batched surface-form lookup:
// just enough to annotate tokens without loading full headwords.
type LemmaRef struct {
	ID            uuid.UUID
	PinyinNumbers string
}
