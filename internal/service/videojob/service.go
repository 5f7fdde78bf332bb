// Package videojob manages video frame-extraction jobs: a durable,
// resumable background job that captures one representative frame per
// timestamped sentence of a lesson.
package videojob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type jobRepo interface {
	Create(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error)
	List(ctx context.Context, lessonID *uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	IncrementProcessed(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}

type sentenceRepo interface {
	ListTimestampedByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error)
	SetFramePath(ctx context.Context, sentenceID uuid.UUID, framePath string) error
}

type lessonRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	CountTimestampedSentences(ctx context.Context, lessonID uuid.UUID) (int, error)
	RecomputeVideoFlag(ctx context.Context, lessonID uuid.UUID) error
}

type frameStore interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	AbsPath(key string) (string, error)
}

// Decoder captures single frames from one open video handle. It is
// opened once per job run and must be closed on every exit path.
// Duration is the media length in seconds, or 0 when unknown.
type Decoder interface {
	CaptureJPEG(ctx context.Context, timestampMS int) ([]byte, error)
	Duration() float64
	Close() error
}

// VideoOpener opens a decoder over a video file on disk.
type VideoOpener interface {
	Open(ctx context.Context, path string) (Decoder, error)
}

// allowedVideoExts is the upload file-type allowlist.
var allowedVideoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
	".avi": true,
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service creates and runs video frame-extraction jobs.
type Service struct {
	log        *slog.Logger
	jobs       jobRepo
	sentences  sentenceRepo
	lessons    lessonRepo
	store      frameStore
	opener     VideoOpener
	dispatcher Dispatcher
}

// NewService creates the video job service. The dispatcher is attached
// afterwards via SetDispatcher because it wraps this service's Run.
func NewService(
	logger *slog.Logger,
	jobs jobRepo,
	sentences sentenceRepo,
	lessons lessonRepo,
	store frameStore,
	opener VideoOpener,
) *Service {
	return &Service{
		log:       logger.With("service", "videojob"),
		jobs:      jobs,
		sentences: sentences,
		lessons:   lessons,
		store:     store,
		opener:    opener,
	}
}

// SetDispatcher attaches the dispatch strategy (inline or background).
func (s *Service) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// CreateJob persists the uploaded video, snapshots the timestamped
// sentence count as total_frames, and dispatches processing. The job
// starts pending and is promoted to queued once its video is safely on
// disk. Dispatch happens only after the job row is committed, so a
// worker can never race ahead of it.
func (s *Service) CreateJob(ctx context.Context, lessonID uuid.UUID, filename string, video io.Reader) (*domain.VideoJob, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedVideoExts[ext] {
		return nil, domain.NewValidationError("video", "unsupported video type; use MP4/MOV/MKV/AVI files")
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	total, err := s.lessons.CountTimestampedSentences(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}

	pending := &domain.VideoJob{
		LessonID:    lesson.ID,
		Status:      domain.JobStatusPending,
		TotalFrames: total,
	}

	key := fmt.Sprintf("videos/%s/%s%s", lesson.ID, uuid.New().String(), ext)
	videoPath, err := s.store.Save(ctx, key, video)
	if err != nil {
		return nil, fmt.Errorf("store uploaded video: %w", err)
	}

	pending.VideoPath = videoPath
	pending.Status = domain.JobStatusQueued

	job, err := s.jobs.Create(ctx, pending)
	if err != nil {
		// The job row never existed; don't leak the upload.
		if delErr := s.store.Delete(ctx, videoPath); delErr != nil {
			s.log.WarnContext(ctx, "orphaned uploaded video",
				slog.String("path", videoPath), slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "video job created",
		slog.String("job_id", job.ID.String()),
		slog.String("lesson_id", lesson.ID.String()),
		slog.Int("total_frames", job.TotalFrames))

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(job.ID)
	}
	return job, nil
}

// GetJob returns the job for status polling.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListJobs returns a lesson's jobs, newest first, optionally filtered
// by lifecycle stage.
func (s *Service) ListJobs(ctx context.Context, lessonID uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown job status")
	}
	return s.jobs.List(ctx, &lessonID, status, limit, offset)
}

// Run drives one job to a terminal state.
//
// State machine: queued → processing → completed | failed. Terminal jobs
// are never re-processed. A job with no timestamped sentences, or whose
// video cannot be opened, fails without ever reaching processing. A
// single sentence's capture failure is logged and skipped; partial
// success is still success. On any terminal transition the uploaded
// video is deleted and the lesson's has_video_frames flag is recomputed.
func (s *Service) Run(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	// Terminal jobs are done; a processing job is already owned by
	// another run and acts as a soft lock against double dispatch.
	if job.IsTerminal() || job.Status == domain.JobStatusProcessing {
		s.log.DebugContext(ctx, "job not runnable, skipping",
			slog.String("job_id", job.ID.String()),
			slog.String("status", string(job.Status)))
		return nil
	}

	sentences, err := s.sentences.ListTimestampedByLesson(ctx, job.LessonID)
	if err != nil {
		return s.failJob(ctx, job, fmt.Sprintf("load sentences: %v", err))
	}
	if len(sentences) == 0 {
		return s.failJob(ctx, job, "no timestamped sentences were found for this lesson")
	}

	videoPath, err := s.store.AbsPath(job.VideoPath)
	if err != nil {
		return s.failJob(ctx, job, fmt.Sprintf("locate uploaded video: %v", err))
	}

	decoder, err := s.opener.Open(ctx, videoPath)
	if err != nil {
		return s.failJob(ctx, job, fmt.Sprintf("unable to open uploaded video: %v", err))
	}

	if err := s.jobs.MarkProcessing(ctx, job.ID); err != nil {
		decoder.Close()
		return s.failJob(ctx, job, fmt.Sprintf("mark processing: %v", err))
	}

	runErr := s.captureAll(ctx, job, sentences, decoder)

	if closeErr := decoder.Close(); closeErr != nil {
		s.log.WarnContext(ctx, "close decoder",
			slog.String("job_id", job.ID.String()),
			slog.String("error", closeErr.Error()))
	}

	if runErr != nil {
		return s.failJob(ctx, job, runErr.Error())
	}

	if err := s.jobs.MarkCompleted(ctx, job.ID); err != nil {
		return s.failJob(ctx, job, fmt.Sprintf("mark completed: %v", err))
	}

	s.log.InfoContext(ctx, "video job completed", slog.String("job_id", job.ID.String()))
	s.finalize(ctx, job)
	return nil
}

// captureAll walks the timestamped sentences in index order, one
// sequential seek+decode per sentence on the shared decoder. Capture
// misses are skipped; persistence failures abort the job.
func (s *Service) captureAll(ctx context.Context, job *domain.VideoJob, sentences []domain.Sentence, decoder Decoder) error {
	durationMS := int(decoder.Duration() * 1000)

	for _, sent := range sentences {
		if !sent.HasTimestamp() {
			continue
		}
		startMS := *sent.StartMS

		// Seeking past the end of the media cannot yield a frame, so
		// count it as a capture miss without invoking the decoder.
		if durationMS > 0 && startMS >= durationMS {
			s.log.WarnContext(ctx, "timestamp past end of media",
				slog.String("job_id", job.ID.String()),
				slog.String("sentence_id", sent.ID.String()),
				slog.Int("start_ms", startMS),
				slog.Int("duration_ms", durationMS))
			continue
		}

		frame, err := decoder.CaptureJPEG(ctx, startMS)
		if err != nil {
			s.log.ErrorContext(ctx, "frame capture failed",
				slog.String("job_id", job.ID.String()),
				slog.String("sentence_id", sent.ID.String()),
				slog.Int("start_ms", startMS),
				slog.String("error", err.Error()))
			continue
		}

		key := fmt.Sprintf("frames/%s/%s.jpg", job.LessonID, uuid.New().String())
		framePath, err := s.store.Save(ctx, key, bytes.NewReader(frame))
		if err != nil {
			return fmt.Errorf("store frame for sentence %s: %w", sent.ID, err)
		}
		if err := s.sentences.SetFramePath(ctx, sent.ID, framePath); err != nil {
			return fmt.Errorf("record frame for sentence %s: %w", sent.ID, err)
		}
		if err := s.jobs.IncrementProcessed(ctx, job.ID); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
	}
	return nil
}

// failJob moves the job to failed with a human-readable message and runs
// terminal cleanup. The message is what status pollers will see.
func (s *Service) failJob(ctx context.Context, job *domain.VideoJob, message string) error {
	s.log.ErrorContext(ctx, "video job failed",
		slog.String("job_id", job.ID.String()),
		slog.String("reason", message))

	if err := s.jobs.MarkFailed(ctx, job.ID, message); err != nil {
		s.log.ErrorContext(ctx, "mark job failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
	}

	s.finalize(ctx, job)
	return fmt.Errorf("video job %s: %s", job.ID, message)
}

// finalize runs on every terminal transition: the original upload is
// deleted regardless of outcome, and the lesson's aggregate flag is
// recomputed from the frame rows actually present.
func (s *Service) finalize(ctx context.Context, job *domain.VideoJob) {
	if err := s.store.Delete(ctx, job.VideoPath); err != nil {
		s.log.WarnContext(ctx, "delete processed video",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
	}

	if err := s.lessons.RecomputeVideoFlag(ctx, job.LessonID); err != nil {
		s.log.WarnContext(ctx, "recompute lesson video flag",
			slog.String("lesson_id", job.LessonID.String()),
			slog.String("error", err.Error()))
	}
}
