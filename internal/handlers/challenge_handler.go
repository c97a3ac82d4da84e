package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"runpool/internal/service"
	"runpool/internal/validation"
)

// ChallengeHandler handles the weekly challenge lifecycle endpoints
type ChallengeHandler struct {
	challenges *service.ChallengeService
	logger     *zap.Logger
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challenges *service.ChallengeService, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		challenges: challenges,
		logger:     logger,
	}
}

type openChallengeRequest struct {
	WeekStart string          `json:"week_start"`
	WeekEnd   string          `json:"week_end"`
	Pot       decimal.Decimal `json:"pot"`
}

// OpenChallenge starts a challenge for the group in the URL
func (h *ChallengeHandler) OpenChallenge(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req openChallengeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	start, err := time.Parse(time.DateOnly, req.WeekStart)
	if err != nil {
		respondWithServiceError(w, h.logger, "", validation.ValidationError{Field: "week_start", Message: "week_start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(time.DateOnly, req.WeekEnd)
	if err != nil {
		respondWithServiceError(w, h.logger, "", validation.ValidationError{Field: "week_end", Message: "week_end must be YYYY-MM-DD"})
		return
	}

	challenge, err := h.challenges.OpenChallenge(r.Context(), user.ID, chi.URLParam(r, "id"), start, end, req.Pot)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to open challenge", err)
		return
	}

	respondJSON(w, http.StatusCreated, envelope{"challenge": challenge})
}

// CurrentChallenge returns the group's open challenge
func (h *ChallengeHandler) CurrentChallenge(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	challenge, err := h.challenges.CurrentChallenge(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to get current challenge", err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{"challenge": challenge})
}

// CloseChallenge closes the challenge in the URL
func (h *ChallengeHandler) CloseChallenge(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	challenge, err := h.challenges.CloseChallenge(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to close challenge", err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{"challenge": challenge})
}
