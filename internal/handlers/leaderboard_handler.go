package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/realtime"
	"runpool/internal/service"
)

const streamKeepAlive = 25 * time.Second

// LeaderboardHandler serves challenge standings as JSON and as a
// server-sent event stream
type LeaderboardHandler struct {
	leaderboards *service.LeaderboardService
	hub          *realtime.Hub
	logger       *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboards *service.LeaderboardService, hub *realtime.Hub, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboards: leaderboards,
		hub:          hub,
		logger:       logger,
	}
}

// Show returns the enriched leaderboard of a challenge
func (h *LeaderboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	view, err := h.leaderboards.Standings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to compute leaderboard", err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"challenge":   view.Challenge,
		"group_name":  view.GroupName,
		"leaderboard": view.Rows,
	})
}

// Stream sends the current leaderboard, then a fresh one after every
// proof change, until the client disconnects
func (h *LeaderboardHandler) Stream(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrStreamUnsupported, "", nil)
		return
	}

	// Subscribe before the first read so no change slips in between.
	sub, unsubscribe := h.hub.Subscribe(challengeID)
	defer unsubscribe()

	view, err := h.leaderboards.Standings(r.Context(), challengeID)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to compute leaderboard", err)
		return
	}

	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Warn("stream write deadline not cleared; server write timeout applies",
			zap.String("challenge_id", challengeID),
			zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, view); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case view := <-sub.C:
			if err := writeEvent(w, view); err != nil {
				h.logger.Debug("stream closed", zap.String("challenge_id", challengeID), zap.Error(err))
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, view *models.LeaderboardView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
	return err
}
