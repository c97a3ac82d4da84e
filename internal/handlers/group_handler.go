package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/service"
)

// GroupHandler handles group management endpoints
type GroupHandler struct {
	groups *service.GroupService
	logger *zap.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups *service.GroupService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groups: groups,
		logger: logger,
	}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// CreateGroup creates a group owned by the caller
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), req.Name, *user)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to create group", err)
		return
	}

	respondJSON(w, http.StatusCreated, envelope{"group": group})
}

// ListGroups returns the caller's groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	groups, err := h.groups.ListUserGroups(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to list groups", err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{"groups": groups})
}

// AddMember adds a user to the group; the caller must be an owner or admin
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	member := models.User{ID: req.UserID, Name: req.Name, Email: req.Email}
	membership, err := h.groups.AddMember(r.Context(), user.ID, chi.URLParam(r, "id"), member, req.Role)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to add member", err)
		return
	}

	respondJSON(w, http.StatusCreated, envelope{"membership": membership})
}
