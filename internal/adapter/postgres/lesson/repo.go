// Package lesson implements the Lesson repository using PostgreSQL.
package lesson

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/domain"
)

// Repo provides lesson persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lesson repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertLessonSQL = `
INSERT INTO lessons (id, title, source_language, target_language, audio_url, has_video_frames, created_at)
VALUES ($1, $2, $3, $4, $5, false, now())
RETURNING id, title, source_language, target_language, audio_url, has_video_frames, created_at`

const getLessonSQL = `
SELECT id, title, source_language, target_language, audio_url, has_video_frames, created_at
FROM lessons
WHERE id = $1`

const listLessonsSQL = `
SELECT id, title, source_language, target_language, audio_url, has_video_frames, created_at
FROM lessons
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

const insertSourceTextSQL = `
INSERT INTO source_texts (id, lesson_id, name, text, "order")
VALUES ($1, $2, $3, $4, $5)`

// Recompute, don't maintain incrementally: partial capture failures must
// not leave the flag out of sync with the frame rows.
const recomputeVideoFlagSQL = `
UPDATE lessons
SET has_video_frames = EXISTS (
    SELECT 1 FROM sentences s WHERE s.lesson_id = lessons.id AND s.frame_path IS NOT NULL
)
WHERE id = $1`

const countTimestampedSQL = `
SELECT count(*) FROM sentences WHERE lesson_id = $1 AND start_ms IS NOT NULL`

// Create inserts a lesson and returns the stored row.
func (r *Repo) Create(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}

	row := querier.QueryRow(ctx, insertLessonSQL,
		lesson.ID, lesson.Title, lesson.SourceLanguage, lesson.TargetLanguage, lesson.AudioURL)

	stored, err := scanLesson(row)
	if err != nil {
		return nil, postgres.MapError(err, "lesson", lesson.ID)
	}
	return stored, nil
}

// GetByID returns one lesson.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	stored, err := scanLesson(querier.QueryRow(ctx, getLessonSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "lesson", id)
	}
	return stored, nil
}

// List returns lessons newest-first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Lesson, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listLessonsSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("list lessons: %w", err)
		}
		lessons = append(lessons, *l)
	}
	return lessons, rows.Err()
}

// CreateSourceText stores the raw ingested text for provenance.
func (r *Repo) CreateSourceText(ctx context.Context, src *domain.SourceText) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}

	_, err := querier.Exec(ctx, insertSourceTextSQL,
		src.ID, src.LessonID, src.Name, src.Text, src.Order)
	return postgres.MapError(err, "source_text", src.ID)
}

// RecomputeVideoFlag refreshes the lesson's has_video_frames aggregate
// from the current sentence frame rows. Idempotent; last write wins.
func (r *Repo) RecomputeVideoFlag(ctx context.Context, lessonID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, recomputeVideoFlagSQL, lessonID)
	return postgres.MapError(err, "lesson", lessonID)
}

// CountTimestampedSentences returns how many sentences carry a start_ms.
func (r *Repo) CountTimestampedSentences(ctx context.Context, lessonID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countTimestampedSQL, lessonID).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "lesson", lessonID)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLesson(row rowScanner) (*domain.Lesson, error) {
	var l domain.Lesson
	err := row.Scan(&l.ID, &l.Title, &l.SourceLanguage, &l.TargetLanguage,
		&l.AudioURL, &l.HasVideoFrames, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
