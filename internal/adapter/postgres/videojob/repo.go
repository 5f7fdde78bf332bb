// Package videojob implements the VideoJob repository using PostgreSQL.
// Status transitions are plain updates; the state machine itself lives in
// the videojob service, which is the only writer after creation.
package videojob

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/domain"
)

// Repo provides video job persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new video job repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const jobColumns = `id, lesson_id, video_path, status, total_frames, processed_frames,
error_message, created_at, updated_at, started_at, completed_at`

const insertJobSQL = `
INSERT INTO video_jobs (id, lesson_id, video_path, status, total_frames, processed_frames, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 0, '', now(), now())
RETURNING ` + jobColumns

const getJobSQL = `
SELECT ` + jobColumns + `
FROM video_jobs
WHERE id = $1`

const markProcessingSQL = `
UPDATE video_jobs
SET status = $2, started_at = now(), processed_frames = 0, error_message = '', updated_at = now()
WHERE id = $1`

const incrementProcessedSQL = `
UPDATE video_jobs
SET processed_frames = processed_frames + 1, updated_at = now()
WHERE id = $1`

const markCompletedSQL = `
UPDATE video_jobs
SET status = $2, completed_at = now(), updated_at = now()
WHERE id = $1`

const markFailedSQL = `
UPDATE video_jobs
SET status = $2, error_message = $3, completed_at = now(), updated_at = now()
WHERE id = $1`

// Create inserts a job and returns the stored row.
func (r *Repo) Create(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	row := querier.QueryRow(ctx, insertJobSQL,
		job.ID, job.LessonID, job.VideoPath, job.Status, job.TotalFrames)

	stored, err := scanJob(row)
	if err != nil {
		return nil, postgres.MapError(err, "video_job", job.ID)
	}
	return stored, nil
}

// GetByID returns one job.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	stored, err := scanJob(querier.QueryRow(ctx, getJobSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "video_job", id)
	}
	return stored, nil
}

// MarkProcessing stamps started_at and resets the progress counter.
func (r *Repo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, markProcessingSQL, id, domain.JobStatusProcessing)
}

// IncrementProcessed bumps processed_frames by one. Called after each
// successful capture so progress is observable mid-run.
func (r *Repo) IncrementProcessed(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	_, err := querier.Exec(ctx, incrementProcessedSQL, id)
	return postgres.MapError(err, "video_job", id)
}

// MarkCompleted moves the job to its successful terminal state.
func (r *Repo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, markCompletedSQL, id, domain.JobStatusCompleted)
}

// MarkFailed moves the job to its failed terminal state with a
// human-readable message.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	_, err := querier.Exec(ctx, markFailedSQL, id, domain.JobStatusFailed, message)
	return postgres.MapError(err, "video_job", id)
}

// List returns jobs filtered by lesson and/or status, newest first.
func (r *Repo) List(ctx context.Context, lessonID *uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error) {
	query := psql.
		Select("id", "lesson_id", "video_path", "status", "total_frames", "processed_frames",
			"error_message", "created_at", "updated_at", "started_at", "completed_at").
		From("video_jobs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if lessonID != nil {
		query = query.Where(sq.Eq{"lesson_id": *lessonID})
	}
	if status != "" {
		query = query.Where(sq.Eq{"status": status})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list video jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.VideoJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list video jobs: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *Repo) exec(ctx context.Context, sql string, id uuid.UUID, status domain.JobStatus) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, sql, id, status)
	if err != nil {
		return postgres.MapError(err, "video_job", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("video_job %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.VideoJob, error) {
	var j domain.VideoJob
	err := row.Scan(&j.ID, &j.LessonID, &j.VideoPath, &j.Status, &j.TotalFrames,
		&j.ProcessedFrames, &j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt,
		&j.StartedAt, &j.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
