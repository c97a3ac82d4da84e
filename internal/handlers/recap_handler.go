package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"runpool/internal/config"
	"runpool/internal/service"
	"runpool/internal/validation"
)

// RecapHandler serves the weekly recap endpoint used by the scheduler and
// by admins previewing recaps
type RecapHandler struct {
	recaps         *service.RecapService
	dispatcher     *service.RecapDispatcher
	testRecipients []string
	logger         *zap.Logger
}

// NewRecapHandler creates a new recap handler
func NewRecapHandler(recaps *service.RecapService, dispatcher *service.RecapDispatcher, testRecipients []string, logger *zap.Logger) *RecapHandler {
	return &RecapHandler{
		recaps:         recaps,
		dispatcher:     dispatcher,
		testRecipients: testRecipients,
		logger:         logger,
	}
}

// WeeklyRecap computes recaps and, with send=1, emails them to the given
// recipients or to the configured test list
func (h *RecapHandler) WeeklyRecap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, h.logger, http.StatusBadRequest, "limit must be a positive integer", "", nil)
			return
		}
		limit = n
	}
	groupID := strings.TrimSpace(q.Get("group_id"))

	var recipients []string
	send := isTruthy(q.Get("send"))
	if send {
		recipients = config.SplitList(q.Get("to"))
		if len(recipients) == 0 {
			recipients = h.testRecipients
		}
		if len(recipients) == 0 {
			respondWithError(w, h.logger, http.StatusBadRequest, "send=1 requires a 'to' list or RECAP_TEST_RECIPIENTS", "", nil)
			return
		}
		if err := validation.ValidateRecipients(recipients); err != nil {
			respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
	}

	recaps, err := h.recaps.ComputeRecap(r.Context(), limit, groupID)
	if err != nil {
		respondWithServiceError(w, h.logger, "failed to compute recap", err)
		return
	}

	body := envelope{"recaps": recaps}
	if send {
		report, err := h.dispatcher.DispatchRecapEmails(r.Context(), recaps, recipients)
		if err != nil {
			respondWithServiceError(w, h.logger, "failed to dispatch recap", err)
			return
		}
		body["sent"] = report

		var partial *service.PartialDeliveryFailure
		if errors.As(report.Err(), &partial) {
			h.logger.Warn("recap delivered partially", zap.Error(partial))
		}
	}

	respondJSON(w, http.StatusOK, body)
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
