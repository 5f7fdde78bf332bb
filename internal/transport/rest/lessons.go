package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
	"github.com/mchales/huistack-backend/internal/service/ingest"
)

type ingestService interface {
	IngestText(ctx context.Context, in ingest.TextInput) (*ingest.Result, error)
	IngestSRT(ctx context.Context, in ingest.SRTInput) (*ingest.Result, error)
}

type lessonReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	List(ctx context.Context, limit, offset int) ([]domain.Lesson, error)
}

type sentenceReader interface {
	ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Sentence, error)
}

type tokenReader interface {
	ListBySentence(ctx context.Context, sentenceID uuid.UUID) ([]domain.Token, error)
}

type videoJobCreator interface {
	CreateJob(ctx context.Context, lessonID uuid.UUID, filename string, video io.Reader) (*domain.VideoJob, error)
}

// LessonHandler serves lesson and ingestion endpoints.
type LessonHandler struct {
	ingest    ingestService
	lessons   lessonReader
	sentences sentenceReader
	tokens    tokenReader
	videoJobs videoJobCreator
	maxUpload int64
	log       *slog.Logger
}

// NewLessonHandler creates a LessonHandler.
func NewLessonHandler(
	ingestSvc ingestService,
	lessons lessonReader,
	sentences sentenceReader,
	tokens tokenReader,
	videoJobs videoJobCreator,
	maxUpload int64,
	logger *slog.Logger,
) *LessonHandler {
	return &LessonHandler{
		ingest:    ingestSvc,
		lessons:   lessons,
		sentences: sentences,
		tokens:    tokens,
		videoJobs: videoJobs,
		maxUpload: maxUpload,
		log:       logger.With("handler", "lessons"),
	}
}

// LessonResponse is the JSON shape for one lesson.
type LessonResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	AudioURL       string    `json:"audio_url,omitempty"`
	HasVideoFrames bool      `json:"has_video_frames"`
	CreatedAt      time.Time `json:"created_at"`
}

// IngestResponse is the JSON shape for ingestion results.
type IngestResponse struct {
	Lesson            LessonResponse    `json:"lesson"`
	SentenceCount     int               `json:"sentence_count"`
	MissingCharacters []string          `json:"missing_characters"`
	VideoJob          *VideoJobResponse `json:"video_job,omitempty"`
}

type ingestTextRequest struct {
	Title          string `json:"title"`
	Name           string `json:"name"`
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Translate      *bool  `json:"translate"`
}

// IngestText handles POST /v1/lessons/ingest-text.
func (h *LessonHandler) IngestText(w http.ResponseWriter, r *http.Request) {
	var req ingestTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.ingest.IngestText(r.Context(), ingest.TextInput{
		Title:          req.Title,
		Name:           req.Name,
		Text:           req.Text,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Translate:      req.Translate,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "ingest text", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse(result, nil))
}

// IngestSRT handles POST /v1/lessons/ingest-srt (multipart). Fields:
// title, name, source_language, target_language, translate, audio_url;
// files: "file" (the .srt, required) and "video" (optional; creates a
// frame-extraction job once the ingest has committed).
func (h *LessonHandler) IngestSRT(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "a subtitle file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read subtitle file")
		return
	}

	var translate *bool
	if v := r.FormValue("translate"); v != "" {
		b := v == "true"
		translate = &b
	}

	result, err := h.ingest.IngestSRT(r.Context(), ingest.SRTInput{
		Title:          r.FormValue("title"),
		Name:           r.FormValue("name"),
		Data:           data,
		AudioURL:       r.FormValue("audio_url"),
		SourceLanguage: r.FormValue("source_language"),
		TargetLanguage: r.FormValue("target_language"),
		Translate:      translate,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "ingest srt", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	// Optional video upload rides along; the job is created only after
	// the ingest transaction has committed, so the worker always sees
	// the new sentence rows.
	var jobResp *VideoJobResponse
	if video, header, err := r.FormFile("video"); err == nil {
		defer video.Close()
		job, err := h.videoJobs.CreateJob(r.Context(), result.Lesson.ID, header.Filename, video)
		if err != nil {
			h.log.ErrorContext(r.Context(), "create video job", slog.String("error", err.Error()))
			writeDomainError(w, err)
			return
		}
		resp := videoJobResponse(job)
		jobResp = &resp
	}

	writeJSON(w, http.StatusCreated, ingestResponse(result, jobResp))
}

// UploadVideo handles POST /v1/lessons/{id}/upload-video (multipart,
// field "video").
func (h *LessonHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	lessonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	video, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "a video file is required")
		return
	}
	defer video.Close()

	job, err := h.videoJobs.CreateJob(r.Context(), lessonID, header.Filename, video)
	if err != nil {
		h.log.ErrorContext(r.Context(), "create video job", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, videoJobResponse(job))
}

// List handles GET /v1/lessons.
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	lessons, err := h.lessons.List(r.Context(), limit, offset)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list lessons", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	out := make([]LessonResponse, 0, len(lessons))
	for i := range lessons {
		out = append(out, lessonResponse(&lessons[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /v1/lessons/{id}: the lesson plus its sentences with
// their token streams, the shape a reader UI renders from.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lessonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	lesson, err := h.lessons.GetByID(r.Context(), lessonID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sentences, err := h.sentences.ListByLesson(r.Context(), lessonID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list sentences", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	for i := range sentences {
		tokens, err := h.tokens.ListBySentence(r.Context(), sentences[i].ID)
		if err != nil {
			h.log.ErrorContext(r.Context(), "list tokens",
				slog.String("sentence_id", sentences[i].ID.String()),
				slog.String("error", err.Error()))
			writeDomainError(w, err)
			return
		}
		sentences[i].Tokens = tokens
	}

	type tokenResponse struct {
		Index   int        `json:"index"`
		Text    string     `json:"text"`
		Kind    string     `json:"kind"`
		LemmaID *uuid.UUID `json:"lemma_id,omitempty"`
	}

	type sentenceResponse struct {
		ID        uuid.UUID       `json:"id"`
		Index     int             `json:"index"`
		Text      string          `json:"text"`
		StartMS   *int            `json:"start_ms,omitempty"`
		EndMS     *int            `json:"end_ms,omitempty"`
		FramePath *string         `json:"frame_path,omitempty"`
		Tokens    []tokenResponse `json:"tokens"`
	}

	sentsOut := make([]sentenceResponse, 0, len(sentences))
	for _, s := range sentences {
		toks := make([]tokenResponse, 0, len(s.Tokens))
		for _, t := range s.Tokens {
			toks = append(toks, tokenResponse{
				Index: t.Index, Text: t.Text, Kind: string(t.Kind), LemmaID: t.LemmaID,
			})
		}
		sentsOut = append(sentsOut, sentenceResponse{
			ID: s.ID, Index: s.Index, Text: s.Text,
			StartMS: s.StartMS, EndMS: s.EndMS, FramePath: s.FramePath,
			Tokens: toks,
		})
	}

	writeJSON(w, http.StatusOK, struct {
		LessonResponse
		Sentences []sentenceResponse `json:"sentences"`
	}{lessonResponse(lesson), sentsOut})
}

func ingestResponse(result *ingest.Result, job *VideoJobResponse) IngestResponse {
	missing := result.MissingCharacters
	if missing == nil {
		missing = []string{}
	}
	return IngestResponse{
		Lesson:            lessonResponse(result.Lesson),
		SentenceCount:     result.SentenceCount,
		MissingCharacters: missing,
		VideoJob:          job,
	}
}

func lessonResponse(l *domain.Lesson) LessonResponse {
	return LessonResponse{
		ID:             l.ID,
		Title:          l.Title,
		SourceLanguage: l.SourceLanguage,
		TargetLanguage: l.TargetLanguage,
		AudioURL:       l.AudioURL,
		HasVideoFrames: l.HasVideoFrames,
		CreatedAt:      l.CreatedAt,
	}
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
