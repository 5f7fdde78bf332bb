package rest

import (
	"net/http"

	"github.com/mchales/huistack-backend/internal/transport/middleware"
)

// RouterDeps collects the handlers and middleware the router wires together.
type RouterDeps struct {
	Lessons   *LessonHandler
	VideoJobs *VideoJobHandler
	Lemmas    *LemmaHandler
	Media     *MediaHandler
	Health    *HealthHandler
	Chain     middleware.Middleware
}

// NewRouter builds the HTTP routing table. All /v1 routes go through the
// middleware chain; health probes are served bare so load balancers are
// not subject to CORS or request logging noise.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /live", deps.Health.Live)

	api := http.NewServeMux()
	api.HandleFunc("POST /v1/lessons/ingest-text", deps.Lessons.IngestText)
	api.HandleFunc("POST /v1/lessons/ingest-srt", deps.Lessons.IngestSRT)
	api.HandleFunc("GET /v1/lessons", deps.Lessons.List)
	api.HandleFunc("GET /v1/lessons/{id}", deps.Lessons.Get)
	api.HandleFunc("POST /v1/lessons/{id}/upload-video", deps.Lessons.UploadVideo)
	api.HandleFunc("GET /v1/lessons/{id}/video-jobs", deps.VideoJobs.ListByLesson)
	api.HandleFunc("GET /v1/video-jobs/{id}", deps.VideoJobs.Get)
	api.HandleFunc("GET /v1/lemmas/{id}", deps.Lemmas.Get)
	api.HandleFunc("GET /v1/media/{path...}", deps.Media.Get)

	mux.Handle("/v1/", deps.Chain(api))

	return mux
}
