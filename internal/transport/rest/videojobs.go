package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
)

type videoJobReader interface {
	GetJob(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error)
	ListJobs(ctx context.Context, lessonID uuid.UUID, status domain.JobStatus, limit, offset int) ([]domain.VideoJob, error)
}

// VideoJobHandler serves job status endpoints for pollers.
type VideoJobHandler struct {
	jobs videoJobReader
	log  *slog.Logger
}

// NewVideoJobHandler creates a VideoJobHandler.
func NewVideoJobHandler(jobs videoJobReader, logger *slog.Logger) *VideoJobHandler {
	return &VideoJobHandler{jobs: jobs, log: logger.With("handler", "videojobs")}
}

// VideoJobResponse is the JSON shape for job status polling.
type VideoJobResponse struct {
	ID              uuid.UUID  `json:"id"`
	LessonID        uuid.UUID  `json:"lesson_id"`
	Status          string     `json:"status"`
	TotalFrames     int        `json:"total_frames"`
	ProcessedFrames int        `json:"processed_frames"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Get handles GET /v1/video-jobs/{id}.
func (h *VideoJobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, videoJobResponse(job))
}

// ListByLesson handles GET /v1/lessons/{id}/video-jobs. Optional query
// parameters: status, limit, offset.
func (h *VideoJobHandler) ListByLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	status := domain.JobStatus(r.URL.Query().Get("status"))
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	jobs, err := h.jobs.ListJobs(r.Context(), lessonID, status, limit, offset)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list video jobs", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	out := make([]VideoJobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, videoJobResponse(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func videoJobResponse(j *domain.VideoJob) VideoJobResponse {
	return VideoJobResponse{
		ID:              j.ID,
		LessonID:        j.LessonID,
		Status:          string(j.Status),
		TotalFrames:     j.TotalFrames,
		ProcessedFrames: j.ProcessedFrames,
		ErrorMessage:    j.ErrorMessage,
		CreatedAt:       j.CreatedAt,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
	}
}
