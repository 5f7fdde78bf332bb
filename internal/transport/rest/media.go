package rest

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
)

type blobOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MediaHandler streams stored blobs (captured frames, lesson audio) to
// clients that follow the frame_path references in lesson responses.
type MediaHandler struct {
	store blobOpener
	log   *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(store blobOpener, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{store: store, log: logger.With("handler", "media")}
}

// Get handles GET /v1/media/{path...}.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("path")

	blob, err := h.store.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			writeError(w, http.StatusNotFound, "media not found")
		case errors.Is(err, os.ErrInvalid):
			writeError(w, http.StatusBadRequest, "invalid media path")
		default:
			h.log.ErrorContext(r.Context(), "open media",
				slog.String("key", key), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "unable to read media")
		}
		return
	}
	defer blob.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, blob); err != nil {
		h.log.WarnContext(r.Context(), "stream media",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}
