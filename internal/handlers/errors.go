package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"runpool/internal/config"
	"runpool/internal/service"
	"runpool/internal/validation"
)

// envelope is the shape of every JSON response
type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, body envelope) {
	if _, ok := body["status"]; !ok {
		body["status"] = StatusOK
	}
	if _, ok := body["error"]; !ok {
		body["error"] = nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			logger.Error(logMsg, zap.Error(err))
		} else {
			logger.Debug(logMsg, zap.Error(err))
		}
	}

	respondJSON(w, status, envelope{"status": StatusError, "error": userMsg})
}

// respondWithServiceError maps a service error onto a status and message
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, logMsg string, err error) {
	status, msg := errorStatus(err)
	respondWithError(w, logger, status, msg, logMsg, err)
}

func errorStatus(err error) (int, string) {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusInternalServerError, cfgErr.Error()
	}

	var verr validation.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}

	switch {
	case errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrNoOpenChallenge):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotGroupMember):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrChallengeAlreadyOpen),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrChallengeClosed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidPot):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, ErrInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
