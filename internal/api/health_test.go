package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/netgraph/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(&mockAnalytics{}, testLogger(), "test-v1", 1)

	r := gin.New()
	r.GET("/health", h.Liveness)

	w := doRequest(r, "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}

	if body["version"] != "test-v1" {
		t.Errorf("expected version 'test-v1', got %v", body["version"])
	}

	if body["schema_version"] != float64(1) {
		t.Errorf("expected schema_version 1, got %v", body["schema_version"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		readyErr   error
		wantStatus int
		wantState  string
	}{
		{name: "store reachable", wantStatus: http.StatusOK, wantState: "ready"},
		{name: "store down", readyErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantState: "not_ready"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockAnalytics{ready: func(context.Context) error { return tc.readyErr }}
			h := api.NewHealthHandler(mock, testLogger(), "v", 1)

			r := gin.New()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, "/ready")
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if body.Status != tc.wantState {
				t.Errorf("expected status %q, got %q", tc.wantState, body.Status)
			}
		})
	}
}
