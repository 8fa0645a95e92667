package adminapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthAndReady(t *testing.T) {
	s := New("test-node", 10)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestSessionsReflectsHistory(t *testing.T) {
	s := New("test-node", 2)
	s.History().Record(SessionRecord{
		StartedAt: time.Now(),
		EndedAt:   time.Now(),
		Outcome:   "ok",
		Role:      "sender",
		Bytes:     1024,
		Frames:    1,
	})
	s.History().Record(SessionRecord{Outcome: "timeout", Role: "sender"})
	s.History().Record(SessionRecord{Outcome: "transport_error", Role: "sender"})

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Sessions []SessionRecord `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2 (capped)", len(body.Sessions))
	}
	if body.Sessions[0].Outcome != "timeout" || body.Sessions[1].Outcome != "transport_error" {
		t.Fatalf("sessions out of order or evicted wrong entry: %+v", body.Sessions)
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	s := New("test-node", 5)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
