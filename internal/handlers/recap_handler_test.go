package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"runpool/internal/config"
	"runpool/internal/ranking"
	"runpool/internal/repository"
	"runpool/internal/service"
)

func TestWeeklyRecapEmpty(t *testing.T) {
	app := newTestApp(t, appOptions{})

	rec, body := app.do(t, "GET", "/weekly-recap", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != StatusOK || body["error"] != nil {
		t.Errorf("body = %v", body)
	}
	recaps, ok := body["recaps"].([]any)
	if !ok || len(recaps) != 0 {
		t.Errorf("recaps = %v, want []", body["recaps"])
	}
	if _, ok := body["sent"]; ok {
		t.Error("sent should be absent when send is not requested")
	}
}

func TestWeeklyRecapLimitAndGroup(t *testing.T) {
	app := newTestApp(t, appOptions{})
	app.seed()
	app.store.SeedChallenge(closedWeek("w1", 0))
	app.store.SeedChallenge(closedWeek("w2", 1))
	app.store.SeedChallenge(closedWeek("w3", 2))

	tests := []struct {
		path string
		want int
	}{
		{path: "/weekly-recap?limit=5", want: 3},
		{path: "/weekly-recap?limit=2", want: 2},
		{path: "/weekly-recap?limit=5&group_id=g1", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, body := app.do(t, "GET", tt.path, "", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := len(body["recaps"].([]any)); got != tt.want {
				t.Errorf("got %d recaps, want %d", got, tt.want)
			}
		})
	}
}

func TestWeeklyRecapRejectsBadLimit(t *testing.T) {
	app := newTestApp(t, appOptions{})
	rec, _ := app.do(t, "GET", "/weekly-recap?limit=abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWeeklyRecapSend(t *testing.T) {
	tests := []struct {
		name           string
		testRecipients []string
		query          string
		wantStatus     int
		wantSent       int
	}{
		{name: "explicit recipients", query: "send=1&to=a@example.com,b@example.com", wantStatus: http.StatusOK, wantSent: 2},
		{name: "falls back to test list", testRecipients: []string{"qa@example.com"}, query: "send=1", wantStatus: http.StatusOK, wantSent: 1},
		{name: "no recipients anywhere", query: "send=1", wantStatus: http.StatusBadRequest},
		{name: "invalid recipient", query: "send=1&to=nope", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, appOptions{testRecipients: tt.testRecipients})
			app.seed()
			app.store.SeedChallenge(closedWeek("w1", 0))

			rec, body := app.do(t, "POST", "/weekly-recap?"+tt.query, "", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", rec.Code, tt.wantStatus, body)
			}
			if tt.wantStatus != http.StatusOK {
				if app.sender.sentCount() != 0 {
					t.Error("nothing should be sent on a rejected request")
				}
				return
			}
			sent := body["sent"].(map[string]any)
			if int(sent["successful"].(float64)) != tt.wantSent {
				t.Errorf("sent = %v, want %d successful", sent, tt.wantSent)
			}
		})
	}
}

func TestWeeklyRecapPartialDelivery(t *testing.T) {
	app := newTestApp(t, appOptions{})
	app.seed()
	app.store.SeedChallenge(closedWeek("w1", 0))
	app.sender.fail["b@example.com"] = true

	rec, body := app.do(t, "POST", "/weekly-recap?send=1&to=a@example.com,b@example.com,c@example.com", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(body["recaps"].([]any)) != 1 {
		t.Error("recaps must still be returned when a delivery fails")
	}
	sent := body["sent"].(map[string]any)
	if sent["successful"].(float64) != 2 || sent["failed"].(float64) != 1 {
		t.Errorf("sent = %v", sent)
	}
	if ids := sent["messageIds"].([]any); len(ids) != 2 {
		t.Errorf("messageIds = %v", ids)
	}
}

func TestWeeklyRecapSendWithoutEmailConfig(t *testing.T) {
	app := newTestApp(t, appOptions{emailDisabled: true})
	app.seed()
	app.store.SeedChallenge(closedWeek("w1", 0))

	rec, body := app.do(t, "POST", "/weekly-recap?send=1&to=a@example.com,b@example.com", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%v)", rec.Code, body)
	}
	if body["status"] != "error" || !contains(body["error"].(string), "SES_FROM_EMAIL") {
		t.Errorf("body = %v, want an error naming SES_FROM_EMAIL", body)
	}
	if app.sender.sentCount() != 0 {
		t.Error("nothing should be sent without email configuration")
	}
}

func TestWeeklyRecapTriggerSecret(t *testing.T) {
	app := newTestApp(t, appOptions{triggerSecret: "cron-secret"})

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong bearer", header: "Authorization", value: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer", header: "Authorization", value: "Bearer cron-secret", want: http.StatusOK},
		{name: "cron header", header: "X-Cron-Secret", value: "cron-secret", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/weekly-recap", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			app.router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWeeklyRecapUnconfiguredStore(t *testing.T) {
	logger := zap.NewNop()
	store := repository.Unavailable{Err: &config.ConfigurationError{Setting: "DATABASE_URL", Reason: "is required when DB_TYPE=postgres"}}
	leaderboards := service.NewLeaderboardService(store, store, store, store, ranking.Additive, 8, logger)
	h := NewRecapHandler(service.NewRecapService(store, store, leaderboards, 10, logger), nil, nil, logger)

	rec := httptest.NewRecorder()
	h.WeeklyRecap(rec, httptest.NewRequest("GET", "/weekly-recap", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); !contains(body, "DATABASE_URL") || !contains(body, `"status":"error"`) {
		t.Errorf("body = %s, want it to name DATABASE_URL", body)
	}
}
