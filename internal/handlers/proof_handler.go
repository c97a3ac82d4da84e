package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"runpool/internal/service"
)

// ProofHandler accepts run proof submissions
type ProofHandler struct {
	proofs *service.ProofService
	logger *zap.Logger
}

// NewProofHandler creates a new proof handler
func NewProofHandler(proofs *service.ProofService, logger *zap.Logger) *ProofHandler {
	return &ProofHandler{
		proofs: proofs,
		logger: logger,
	}
}

type submitProofRequest struct {
	Miles    *float64 `json:"miles"`
	ImageURL string   `json:"image_url"`
}

// SubmitProof records a run for the caller in the challenge in the URL
func (h *ProofHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req submitProofRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.Miles == nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "miles: miles is required", "", nil)
		return
	}

	proof, err := h.proofs.SubmitProof(r.Context(), *user, chi.URLParam(r, "id"), *req.Miles, req.ImageURL)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to submit proof", err)
		return
	}

	respondJSON(w, http.StatusCreated, envelope{"proof": proof})
}
