package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LibreProvider talks to a LibreTranslate-compatible endpoint
// (POST /translate with {"q","source","target"}).
type LibreProvider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewLibreProvider creates a provider for the given base URL
// (e.g. "http://localhost:5000").
func NewLibreProvider(baseURL string, logger *slog.Logger) *LibreProvider {
	return &LibreProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "libretranslate"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate requests a machine translation. Any non-200 response or
// transport failure yields the empty result with the error; callers treat
// translation as best-effort and log-and-skip.
func (p *LibreProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: normalizeLang(sourceLang, "auto"),
		Target: normalizeLang(targetLang, "en"),
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("translate: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("translate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.log.DebugContext(ctx, "translate request",
		slog.String("source", sourceLang), slog.String("target", targetLang))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: read body: %w", err)
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("translate: decode json: %w", err)
	}

	return strings.TrimSpace(out.TranslatedText), nil
}

// normalizeLang maps common Chinese language tags to the forms the
// translation backend expects.
func normalizeLang(lang, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "":
		return fallback
	case "zh", "zh-cn", "zh_hans", "chinese", "chinese (simplified)":
		return "zh"
	case "zh-tw", "zh_hant", "chinese (traditional)":
		return "zt"
	default:
		return lang
	}
}
