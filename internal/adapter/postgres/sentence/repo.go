// Package sentence implements the Sentence repository using PostgreSQL.
package sentence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/domain"
)

// Repo provides sentence persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sentence repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSentenceSQL = `
INSERT INTO sentences (id, lesson_id, source_id, index, text, start_ms, end_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, lesson_id, source_id, index, text, start_ms, end_ms, frame_path`

const listByLessonSQL = `
SELECT id, lesson_id, source_id, index, text, start_ms, end_ms, frame_path
FROM sentences
WHERE lesson_id = $1
ORDER BY index, id`

const listTimestampedSQL = `
SELECT id, lesson_id, source_id, index, text, start_ms, end_ms, frame_path
FROM sentences
WHERE lesson_id = $1 AND start_ms IS NOT NULL
ORDER BY index, id`

const setFramePathSQL = `
UPDATE sentences SET frame_path = $2 WHERE id = $1`

const insertTranslationSQL = `
INSERT INTO sentence_translations (id, sentence_id, language, text, source)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sentence_id, language, source) DO UPDATE SET text = EXCLUDED.text`

// Create inserts one sentence and returns the stored row.
func (r *Repo) Create(ctx context.Context, s *domain.Sentence) (*domain.Sentence, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	row := querier.QueryRow(ctx, insertSentenceSQL,
		s.ID, s.LessonID, s.SourceID, s.Index, s.Text, s.StartMS, s.EndMS)

	stored, err := scanSentence(row)
	if err != nil {
		return nil, postgres.MapError(err, "sentence", s.ID)
	}
	return stored, nil
}

// ListByLesson returns all sentences of a lesson in index order.
func (r *Repo) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error) {
	return r.list(ctx, listByLessonSQL, lessonID)
}

// ListTimestampedByLesson returns the lesson's subtitle-derived sentences
// in index order. These are the frame-extraction candidates.
func (r *Repo) ListTimestampedByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error) {
	return r.list(ctx, listTimestampedSQL, lessonID)
}

// SetFramePath records the stored frame reference for a sentence.
func (r *Repo) SetFramePath(ctx context.Context, sentenceID uuid.UUID, framePath string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setFramePathSQL, sentenceID, framePath)
	if err != nil {
		return postgres.MapError(err, "sentence", sentenceID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sentence %s: %w", sentenceID, domain.ErrNotFound)
	}
	return nil
}

// CreateTranslation upserts a sentence translation for one
// (sentence, language, source) slot.
func (r *Repo) CreateTranslation(ctx context.Context, tr *domain.SentenceTranslation) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}

	_, err := querier.Exec(ctx, insertTranslationSQL,
		tr.ID, tr.SentenceID, tr.Language, tr.Text, tr.Source)
	return postgres.MapError(err, "sentence_translation", tr.ID)
}

func (r *Repo) list(ctx context.Context, sql string, lessonID uuid.UUID) ([]domain.Sentence, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, lessonID)
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	defer rows.Close()

	var sentences []domain.Sentence
	for rows.Next() {
		s, err := scanSentence(rows)
		if err != nil {
			return nil, fmt.Errorf("list sentences: %w", err)
		}
		sentences = append(sentences, *s)
	}
	return sentences, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSentence(row rowScanner) (*domain.Sentence, error) {
	var s domain.Sentence
	err := row.Scan(&s.ID, &s.LessonID, &s.SourceID, &s.Index, &s.Text,
		&s.StartMS, &s.EndMS, &s.FramePath)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
