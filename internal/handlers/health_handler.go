package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger checks that the store is reachable
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness and store reachability
type HealthHandler struct {
	ping   Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ping Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// Health returns 200 when the store answers and 503 otherwise
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError && msg == ErrInternalServerError {
			msg = "database unreachable"
		}
		respondWithError(w, h.logger, http.StatusServiceUnavailable, msg, "health check failed", err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{})
}
