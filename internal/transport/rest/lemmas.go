package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mchales/huistack-backend/internal/domain"
)

type lemmaReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lemma, error)
}

// LemmaHandler serves dictionary headword lookups, used by reader UIs
// to expand a token's lemma reference into its full entry.
type LemmaHandler struct {
	lemmas lemmaReader
	log    *slog.Logger
}

// NewLemmaHandler creates a LemmaHandler.
func NewLemmaHandler(lemmas lemmaReader, logger *slog.Logger) *LemmaHandler {
	return &LemmaHandler{lemmas: lemmas, log: logger.With("handler", "lemmas")}
}

// LemmaResponse is the JSON shape for one dictionary headword.
type LemmaResponse struct {
	ID            uuid.UUID `json:"id"`
	Traditional   string    `json:"traditional"`
	Simplified    string    `json:"simplified"`
	PinyinNumbers string    `json:"pinyin_numbers"`
}

// Get handles GET /v1/lemmas/{id}.
func (h *LemmaHandler) Get(w http.ResponseWriter, r *http.Request) {
	lemmaID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lemma id")
		return
	}

	lemma, err := h.lemmas.GetByID(r.Context(), lemmaID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LemmaResponse{
		ID:            lemma.ID,
		Traditional:   lemma.Traditional,
		Simplified:    lemma.Simplified,
		PinyinNumbers: lemma.PinyinNumbers,
	})
}
