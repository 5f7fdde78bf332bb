package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is the aggregate root for one ingested text or subtitle file.
type Lesson struct {
	ID             uuid.UUID
	Title          string
	SourceLanguage string
	TargetLanguage string
	AudioURL       string
	HasVideoFrames bool
	Meta           map[string]string
	CreatedAt      time.Time
}

// SourceText keeps the raw ingested text for provenance.
type SourceText struct {
	ID       uuid.UUID
	LessonID uuid.UUID
	Name     string
	Text     string
	Order    int
}

// Sentence is one unit of a lesson, ordered by its 1-based Index.
// StartMS/EndMS are set only for subtitle-derived sentences.
// FramePath is set only after a successful video frame capture.
type Sentence struct {
	ID        uuid.UUID
	LessonID  uuid.UUID
	SourceID  uuid.UUID
	Index     int
	Text      string
	StartMS   *int
	EndMS     *int
	FramePath *string

	Tokens []Token
}

// HasTimestamp reports whether the sentence carries subtitle timing.
func (s *Sentence) HasTimestamp() bool {
	return s.StartMS != nil
}

// TranslationSource tags where a sentence translation came from.
type TranslationSource string

const (
	TranslationSourceMachine TranslationSource = "machine"
)

// SentenceTranslation is one translation of a sentence into one language.
// Unique per (sentence, language, source).
type SentenceTranslation struct {
	ID         uuid.UUID
	SentenceID uuid.UUID
	Language   string
	Text       string
	Source     TranslationSource
}
