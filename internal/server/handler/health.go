package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	version string
	env     string
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler reporting version and env.
func NewHealthHandler(version, env string) *HealthHandler {
	return &HealthHandler{version: version, env: env, now: time.Now}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Env       string `json:"env"`
}

// HealthCheck always responds 200; it does not probe upstream.
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Env:       h.env,
	})
}
