package rest

import (
	"context"
	"net/http"
	"time"
)

const probeTimeout = 3 * time.Second

// dbPinger is the slice of the connection pool the probes need.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and full health probes.
type HealthHandler struct {
	db      dbPinger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type probeStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Database  *dbStatus `json:"database,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type dbStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// Live reports process liveness and never fails.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, probeStatus{Status: "ok", CheckedAt: time.Now()})
}

// Ready reports whether the service can take traffic: the database must
// answer a ping within the probe timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	code := http.StatusOK
	status := "ok"
	if err := h.db.Ping(ctx); err != nil {
		code = http.StatusServiceUnavailable
		status = "down"
	}
	writeJSON(w, code, probeStatus{Status: status, CheckedAt: time.Now()})
}

// Health is the detailed probe: build version plus database state with
// round-trip latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	began := time.Now()
	pingErr := h.db.Ping(ctx)
	elapsed := time.Since(began)

	resp := probeStatus{
		Status:    "ok",
		Version:   h.version,
		Database:  &dbStatus{Status: "ok", LatencyMS: elapsed.Milliseconds()},
		CheckedAt: time.Now(),
	}
	code := http.StatusOK
	if pingErr != nil {
		resp.Status = "down"
		resp.Database.Status = "down"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, resp)
}
