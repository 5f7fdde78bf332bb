package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaHandler_Get(t *testing.T) {
	t.Parallel()

	store := &mockBlobOpener{}
	h := NewMediaHandler(store, slog.Default())

	store.OpenFunc = func(_ context.Context, key string) (io.ReadCloser, error) {
		assert.Equal(t, "frames/lesson/a.jpg", key)
		return io.NopCloser(strings.NewReader("jpegbytes")), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/media/frames/lesson/a.jpg", nil)
	req.SetPathValue("path", "frames/lesson/a.jpg")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpegbytes", rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestMediaHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	h := NewMediaHandler(&mockBlobOpener{}, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/v1/media/frames/gone.jpg", nil)
	req.SetPathValue("path", "frames/gone.jpg")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMediaHandler_Get_TraversalKeyIs400(t *testing.T) {
	t.Parallel()

	store := &mockBlobOpener{}
	h := NewMediaHandler(store, slog.Default())

	store.OpenFunc = func(_ context.Context, key string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("blob key %q: %w", key, os.ErrInvalid)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/media/x", nil)
	req.SetPathValue("path", "../etc/passwd")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
