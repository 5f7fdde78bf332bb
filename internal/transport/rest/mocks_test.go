package rest

import (
	"context"
	"io"
	"io/fs"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
	"github.com/mchales/huistack-backend/internal/service/ingest"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockIngestService struct {
	IngestTextFunc func(ctx context.Context, in ingest.TextInput) (*ingest.Result, error)
	IngestSRTFunc  func(ctx context.Context, in ingest.SRTInput) (*ingest.Result, error)
}

func (m *mockIngestService) IngestText(ctx context.Context, in ingest.TextInput) (*ingest.Result, error) {
	if m.IngestTextFunc != nil {
		return m.IngestTextFunc(ctx, in)
	}
	return &ingest.Result{Lesson: &domain.Lesson{ID: uuid.New(), Title: in.Title}}, nil
}

func (m *mockIngestService) IngestSRT(ctx context.Context, in ingest.SRTInput) (*ingest.Result, error) {
	if m.IngestSRTFunc != nil {
		return m.IngestSRTFunc(ctx, in)
	}
	return &ingest.Result{Lesson: &domain.Lesson{ID: uuid.New(), Title: in.Title}}, nil
}

type mockLessonReader struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]domain.Lesson, error)
}

func (m *mockLessonReader) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLessonReader) List(ctx context.Context, limit, offset int) ([]domain.Lesson, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockSentenceReader struct {
	ListByLessonFunc func(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error)
}

func (m *mockSentenceReader) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error) {
	if m.ListByLessonFunc != nil {
		return m.ListByLessonFunc(ctx, lessonID)
	}
	return nil, nil
}

type mockTokenReader struct {
	ListBySentenceFunc func(ctx context.Context, sentenceID uuid.UUID) ([]domain.Token, error)
}

func (m *mockTokenReader) ListBySentence(ctx context.Context, sentenceID uuid.UUID) ([]domain.Token, error) {
	if m.ListBySentenceFunc != nil {
		return m.ListBySentenceFunc(ctx, sentenceID)
	}
	return nil, nil
}

type mockVideoJobCreator struct {
	CreateJobFunc func(ctx context.Context, lessonID uuid.UUID, filename string, video io.Reader) (*domain.VideoJob, error)
}

func (m *mockVideoJobCreator) CreateJob(ctx context.Context, lessonID uuid.UUID, filename string, video io.Reader) (*domain.VideoJob, error) {
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, lessonID, filename, video)
	}
	return &domain.VideoJob{ID: uuid.New(), LessonID: lessonID, Status: domain.JobStatusQueued}, nil
}

type mockVideoJobReader struct {
	GetJobFunc   func(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error)
	ListJobsFunc func(ctx context.Context, lessonID uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error)
}

func (m *mockVideoJobReader) GetJob(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error) {
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVideoJobReader) ListJobs(ctx context.Context, lessonID uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error) {
	if m.ListJobsFunc != nil {
		return m.ListJobsFunc(ctx, lessonID, status, limit, offset)
	}
	return nil, nil
}

type mockBlobOpener struct {
	OpenFunc func(ctx context.Context, key string) (io.ReadCloser, error)
}

func (m *mockBlobOpener) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, key)
	}
	return nil, fs.ErrNotExist
}

type mockLemmaReader struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Lemma, error)
}

func (m *mockLemmaReader) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lemma, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}
