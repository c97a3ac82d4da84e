package handlers

import (
	"net/http"
	"testing"
)

func TestGroupRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, appOptions{})

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/groups"},
		{"POST", "/groups"},
		{"POST", "/groups/g1/members"},
		{"POST", "/groups/g1/challenges"},
		{"GET", "/groups/g1/challenges/current"},
		{"POST", "/challenges/c1/close"},
		{"POST", "/challenges/c1/proofs"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec, _ := app.do(t, tt.method, tt.path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			rec, _ = app.do(t, tt.method, tt.path, "not-a-token", "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("bad token status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestGroupLifecycle(t *testing.T) {
	app := newTestApp(t, appOptions{})
	owner := app.token(t, "alice", "Alice")
	member := app.token(t, "bob", "Bob")

	rec, body := app.do(t, "POST", "/groups", owner, `{"name": "Dawn Patrol"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group = %d %v", rec.Code, body)
	}
	groupID := body["group"].(map[string]any)["id"].(string)

	rec, body = app.do(t, "POST", "/groups/"+groupID+"/members", owner, `{"user_id": "bob", "name": "Bob"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add member = %d %v", rec.Code, body)
	}
	if role := body["membership"].(map[string]any)["role"]; role != "member" {
		t.Errorf("role = %v, want member", role)
	}

	rec, _ = app.do(t, "POST", "/groups/"+groupID+"/members", member, `{"user_id": "carol"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member adding member = %d, want 403", rec.Code)
	}

	rec, _ = app.do(t, "GET", "/groups/"+groupID+"/challenges/current", member, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("current before open = %d, want 404", rec.Code)
	}

	rec, _ = app.do(t, "POST", "/groups/"+groupID+"/challenges", member, `{"week_start": "2026-10-12", "week_end": "2026-10-18"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member opening challenge = %d, want 403", rec.Code)
	}

	rec, body = app.do(t, "POST", "/groups/"+groupID+"/challenges", owner, `{"week_start": "2026-10-12", "week_end": "2026-10-18", "pot": "25.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open challenge = %d %v", rec.Code, body)
	}
	challengeID := body["challenge"].(map[string]any)["id"].(string)

	rec, _ = app.do(t, "POST", "/groups/"+groupID+"/challenges", owner, `{"week_start": "2026-10-19", "week_end": "2026-10-25"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("second open challenge = %d, want 409", rec.Code)
	}

	rec, body = app.do(t, "GET", "/groups/"+groupID+"/challenges/current", member, "")
	if rec.Code != http.StatusOK || body["challenge"].(map[string]any)["id"] != challengeID {
		t.Errorf("current = %d %v", rec.Code, body)
	}

	rec, _ = app.do(t, "POST", "/challenges/"+challengeID+"/close", member, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("member closing = %d, want 403", rec.Code)
	}
	rec, body = app.do(t, "POST", "/challenges/"+challengeID+"/close", owner, "")
	if rec.Code != http.StatusOK || body["challenge"].(map[string]any)["status"] != "CLOSED" {
		t.Errorf("close = %d %v", rec.Code, body)
	}

	rec, body = app.do(t, "GET", "/groups", member, "")
	if rec.Code != http.StatusOK || len(body["groups"].([]any)) != 1 {
		t.Errorf("list groups = %d %v", rec.Code, body)
	}
}

func TestOpenChallengeBadDates(t *testing.T) {
	app := newTestApp(t, appOptions{})
	app.seed()
	owner := app.token(t, "alice", "Alice")

	tests := []struct {
		name string
		body string
	}{
		{name: "not a date", body: `{"week_start": "next monday", "week_end": "2026-10-18"}`},
		{name: "backwards", body: `{"week_start": "2026-10-18", "week_end": "2026-10-12"}`},
		{name: "malformed json", body: `{"week_start":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := app.do(t, "POST", "/groups/g1/challenges", owner, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
