// Package ingest turns raw lesson text or subtitle files into persisted
// sentence and token records.
package ingest

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/config"
	"github.com/mchales/huistack-backend/internal/domain"
	"github.com/mchales/huistack-backend/internal/srt"
	"github.com/mchales/huistack-backend/internal/textseg"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lessonRepo interface {
	Create(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error)
	CreateSourceText(ctx context.Context, src *domain.SourceText) error
}

type sentenceRepo interface {
	Create(ctx context.Context, s *domain.Sentence) (*domain.Sentence, error)
	CreateTranslation(ctx context.Context, tr *domain.SentenceTranslation) error
}

type tokenRepo interface {
	BulkInsert(ctx context.Context, tokens []domain.Token) error
}

type lemmaRepo interface {
	GetBySurfaceForms(ctx context.Context, forms []string) (map[string]domain.LemmaRef, error)
}

type translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service orchestrates ingestion: sentence splitting or SRT parsing,
// tokenization, lemma resolution, and atomic persistence.
type Service struct {
	log        *slog.Logger
	lessons    lessonRepo
	sentences  sentenceRepo
	tokens     tokenRepo
	resolver   *Resolver
	tokenizer  *textseg.Tokenizer
	translator translator
	txm        txManager
	defaults   config.IngestConfig
}

// NewService creates the ingestion service. translator may be nil when
// machine translation is disabled. defaults supplies the language pair
// and translate switch used when a request leaves them blank.
func NewService(
	logger *slog.Logger,
	lessons lessonRepo,
	sentences sentenceRepo,
	tokens tokenRepo,
	lemmas lemmaRepo,
	tokenizer *textseg.Tokenizer,
	translator translator,
	txm txManager,
	defaults config.IngestConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "ingest"),
		lessons:    lessons,
		sentences:  sentences,
		tokens:     tokens,
		resolver:   NewResolver(lemmas),
		tokenizer:  tokenizer,
		translator: translator,
		txm:        txm,
		defaults:   defaults,
	}
}

// TextInput is a plain-text ingestion request. A nil Translate defers
// to the configured default.
type TextInput struct {
	Title          string
	Name           string
	Text           string
	SourceLanguage string
	TargetLanguage string
	Translate      *bool
}

// SRTInput is a subtitle-file ingestion request. A nil Translate defers
// to the configured default.
type SRTInput struct {
	Title          string
	Name           string
	Data           []byte
	AudioURL       string
	SourceLanguage string
	TargetLanguage string
	Translate      *bool
}

// Result reports what one ingestion produced.
type Result struct {
	Lesson            *domain.Lesson
	SentenceCount     int
	MissingCharacters []string
}

// timedSentence is one sentence-to-be with optional subtitle timing.
type timedSentence struct {
	text    string
	startMS *int
	endMS   *int
}

// IngestText splits plain text into sentences, tokenizes and resolves
// them, and persists everything atomically.
func (s *Service) IngestText(ctx context.Context, in TextInput) (*Result, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.NewValidationError("text", "must not be empty")
	}

	sentences := make([]timedSentence, 0)
	for _, text := range textseg.SplitSentences(in.Text) {
		sentences = append(sentences, timedSentence{text: text})
	}

	return s.ingest(ctx, ingestParams{
		title:          in.Title,
		sourceName:     in.Name,
		rawText:        in.Text,
		sourceLanguage: in.SourceLanguage,
		targetLanguage: in.TargetLanguage,
		translate:      in.Translate,
		sentences:      sentences,
	})
}

// IngestSRT parses a subtitle document into timed cues and ingests each
// cue as one sentence carrying its start/end milliseconds.
func (s *Service) IngestSRT(ctx context.Context, in SRTInput) (*Result, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}

	text := decodeSubtitleBytes(in.Data)
	cues := srt.Parse(text)
	if len(cues) == 0 {
		return nil, domain.NewValidationError("file", "no parsable subtitle cues")
	}

	sentences := make([]timedSentence, 0, len(cues))
	for _, cue := range cues {
		start, end := cue.StartMS, cue.EndMS
		sentences = append(sentences, timedSentence{text: cue.Text, startMS: &start, endMS: &end})
	}

	return s.ingest(ctx, ingestParams{
		title:          in.Title,
		sourceName:     in.Name,
		rawText:        text,
		audioURL:       in.AudioURL,
		sourceLanguage: in.SourceLanguage,
		targetLanguage: in.TargetLanguage,
		translate:      in.Translate,
		sentences:      sentences,
	})
}

type ingestParams struct {
	title          string
	sourceName     string
	rawText        string
	audioURL       string
	sourceLanguage string
	targetLanguage string
	translate      *bool
	sentences      []timedSentence
}

// ingest tokenizes and resolves all sentences up front (one batched
// dictionary lookup for the whole submission), then persists lesson,
// source text, sentences, tokens, and best-effort translations in a
// single transaction. Failure midway rolls everything back.
func (s *Service) ingest(ctx context.Context, p ingestParams) (*Result, error) {
	if p.sourceLanguage == "" {
		p.sourceLanguage = s.defaults.SourceLanguage
	}
	if p.targetLanguage == "" {
		p.targetLanguage = s.defaults.TargetLanguage
	}
	translate := s.defaults.Translate
	if p.translate != nil {
		translate = *p.translate
	}

	pieces := make([][]textseg.Piece, len(p.sentences))
	for i, sent := range p.sentences {
		pieces[i] = s.tokenizer.Tokenize(sent.text)
	}

	resolution, err := s.resolver.Resolve(ctx, pieces)
	if err != nil {
		return nil, err
	}

	var lesson *domain.Lesson
	err = s.txm.RunInTx(ctx, func(ctx context.Context) error {
		lesson, err = s.lessons.Create(ctx, &domain.Lesson{
			Title:          p.title,
			SourceLanguage: p.sourceLanguage,
			TargetLanguage: p.targetLanguage,
			AudioURL:       p.audioURL,
		})
		if err != nil {
			return err
		}

		source := &domain.SourceText{
			ID:       uuid.New(),
			LessonID: lesson.ID,
			Name:     p.sourceName,
			Text:     p.rawText,
			Order:    1,
		}
		if err := s.lessons.CreateSourceText(ctx, source); err != nil {
			return err
		}

		for i, sent := range p.sentences {
			stored, err := s.sentences.Create(ctx, &domain.Sentence{
				LessonID: lesson.ID,
				SourceID: source.ID,
				Index:    i + 1,
				Text:     sent.text,
				StartMS:  sent.startMS,
				EndMS:    sent.endMS,
			})
			if err != nil {
				return err
			}

			tokens := resolution.Sentences[i]
			for j := range tokens {
				tokens[j].SentenceID = stored.ID
			}
			if err := s.tokens.BulkInsert(ctx, tokens); err != nil {
				return err
			}

			if translate {
				s.translateSentence(ctx, lesson, stored)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Lesson:            lesson,
		SentenceCount:     len(p.sentences),
		MissingCharacters: resolution.MissingCharacters,
	}, nil
}

// translateSentence stores a machine translation for one sentence.
// Best-effort: failures and empty results are logged and skipped, never
// blocking ingestion.
func (s *Service) translateSentence(ctx context.Context, lesson *domain.Lesson, sent *domain.Sentence) {
	if s.translator == nil {
		return
	}

	translated, err := s.translator.Translate(ctx, sent.Text, lesson.SourceLanguage, lesson.TargetLanguage)
	if err != nil {
		s.log.WarnContext(ctx, "translation failed",
			slog.String("sentence_id", sent.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if translated == "" {
		return
	}

	err = s.sentences.CreateTranslation(ctx, &domain.SentenceTranslation{
		SentenceID: sent.ID,
		Language:   lesson.TargetLanguage,
		Text:       translated,
		Source:     domain.TranslationSourceMachine,
	})
	if err != nil {
		s.log.WarnContext(ctx, "store translation failed",
			slog.String("sentence_id", sent.ID.String()),
			slog.String("error", err.Error()))
	}
}

// decodeSubtitleBytes interprets the upload as UTF-8, falling back to
// Latin-1 when the bytes are not valid UTF-8.
func decodeSubtitleBytes(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
