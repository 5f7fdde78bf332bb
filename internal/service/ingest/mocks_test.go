package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockLessonRepo struct {
	CreateFunc           func(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error)
	CreateSourceTextFunc func(ctx context.Context, src *domain.SourceText) error
}

func (m *mockLessonRepo) Create(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, lesson)
	}
	out := *lesson
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockLessonRepo) CreateSourceText(ctx context.Context, src *domain.SourceText) error {
	if m.CreateSourceTextFunc != nil {
		return m.CreateSourceTextFunc(ctx, src)
	}
	return nil
}

type mockSentenceRepo struct {
	CreateFunc            func(ctx context.Context, s *domain.Sentence) (*domain.Sentence, error)
	CreateTranslationFunc func(ctx context.Context, tr *domain.SentenceTranslation) error
}

func (m *mockSentenceRepo) Create(ctx context.Context, s *domain.Sentence) (*domain.Sentence, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	out := *s
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockSentenceRepo) CreateTranslation(ctx context.Context, tr *domain.SentenceTranslation) error {
	if m.CreateTranslationFunc != nil {
		return m.CreateTranslationFunc(ctx, tr)
	}
	return nil
}

type mockTokenRepo struct {
	BulkInsertFunc func(ctx context.Context, tokens []domain.Token) error
}

func (m *mockTokenRepo) BulkInsert(ctx context.Context, tokens []domain.Token) error {
	if m.BulkInsertFunc != nil {
		return m.BulkInsertFunc(ctx, tokens)
	}
	return nil
}

type mockLemmaRepo struct {
	GetBySurfaceFormsFunc func(ctx context.Context, forms []string) (map[string]domain.LemmaRef, error)
}

func (m *mockLemmaRepo) GetBySurfaceForms(ctx context.Context, forms []string) (map[string]domain.LemmaRef, error) {
	if m.GetBySurfaceFormsFunc != nil {
		return m.GetBySurfaceFormsFunc(ctx, forms)
	}
	return map[string]domain.LemmaRef{}, nil
}

type mockTranslator struct {
	TranslateFunc func(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

func (m *mockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, sourceLang, targetLang)
	}
	return "", nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
