package videojob

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockJobRepo struct {
	CreateFunc             func(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error)
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error)
	ListFunc               func(ctx context.Context, lessonID *uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error)
	MarkProcessingFunc     func(ctx context.Context, id uuid.UUID) error
	IncrementProcessedFunc func(ctx context.Context, id uuid.UUID) error
	MarkCompletedFunc      func(ctx context.Context, id uuid.UUID) error
	MarkFailedFunc         func(ctx context.Context, id uuid.UUID, message string) error
}

func (m *mockJobRepo) Create(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	out := *job
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockJobRepo) List(ctx context.Context, lessonID *uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, lessonID, status, limit, offset)
	}
	return nil, nil
}

func (m *mockJobRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	if m.MarkProcessingFunc != nil {
		return m.MarkProcessingFunc(ctx, id)
	}
	return nil
}

func (m *mockJobRepo) IncrementProcessed(ctx context.Context, id uuid.UUID) error {
	if m.IncrementProcessedFunc != nil {
		return m.IncrementProcessedFunc(ctx, id)
	}
	return nil
}

func (m *mockJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, id)
	}
	return nil
}

func (m *mockJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, message)
	}
	return nil
}

type mockSentenceRepo struct {
	ListTimestampedByLessonFunc func(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error)
	SetFramePathFunc            func(ctx context.Context, sentenceID uuid.UUID, framePath string) error
}

func (m *mockSentenceRepo) ListTimestampedByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error) {
	if m.ListTimestampedByLessonFunc != nil {
		return m.ListTimestampedByLessonFunc(ctx, lessonID)
	}
	return nil, nil
}

func (m *mockSentenceRepo) SetFramePath(ctx context.Context, sentenceID uuid.UUID, framePath string) error {
	if m.SetFramePathFunc != nil {
		return m.SetFramePathFunc(ctx, sentenceID, framePath)
	}
	return nil
}

type mockLessonRepo struct {
	GetByIDFunc                   func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	CountTimestampedSentencesFunc func(ctx context.Context, lessonID uuid.UUID) (int, error)
	RecomputeVideoFlagFunc        func(ctx context.Context, lessonID uuid.UUID) error
}

func (m *mockLessonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Lesson{ID: id}, nil
}

func (m *mockLessonRepo) CountTimestampedSentences(ctx context.Context, lessonID uuid.UUID) (int, error) {
	if m.CountTimestampedSentencesFunc != nil {
		return m.CountTimestampedSentencesFunc(ctx, lessonID)
	}
	return 0, nil
}

func (m *mockLessonRepo) RecomputeVideoFlag(ctx context.Context, lessonID uuid.UUID) error {
	if m.RecomputeVideoFlagFunc != nil {
		return m.RecomputeVideoFlagFunc(ctx, lessonID)
	}
	return nil
}

type mockFrameStore struct {
	SaveFunc    func(ctx context.Context, key string, r io.Reader) (string, error)
	DeleteFunc  func(ctx context.Context, key string) error
	AbsPathFunc func(key string) (string, error)

	deleted []string
}

func (m *mockFrameStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, key, r)
	}
	return key, nil
}

func (m *mockFrameStore) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *mockFrameStore) AbsPath(key string) (string, error) {
	if m.AbsPathFunc != nil {
		return m.AbsPathFunc(key)
	}
	return "/media/" + key, nil
}

type mockDecoder struct {
	CaptureJPEGFunc func(ctx context.Context, timestampMS int) ([]byte, error)
	DurationFunc    func() float64
	CloseFunc       func() error

	captures []int
	closed   int
}

func (m *mockDecoder) CaptureJPEG(ctx context.Context, timestampMS int) ([]byte, error) {
	m.captures = append(m.captures, timestampMS)
	if m.CaptureJPEGFunc != nil {
		return m.CaptureJPEGFunc(ctx, timestampMS)
	}
	return []byte{0xff, 0xd8}, nil
}

func (m *mockDecoder) Duration() float64 {
	if m.DurationFunc != nil {
		return m.DurationFunc()
	}
	return 3600
}

func (m *mockDecoder) Close() error {
	m.closed++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

type mockOpener struct {
	OpenFunc func(ctx context.Context, path string) (Decoder, error)

	opens int
}

func (m *mockOpener) Open(ctx context.Context, path string) (Decoder, error) {
	m.opens++
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	return &mockDecoder{}, nil
}
