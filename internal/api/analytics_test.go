package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/persistorai/netgraph/internal/api"
	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/middleware"
	"github.com/persistorai/netgraph/internal/models"
)

func newRouter(t *testing.T, svc *mockAnalytics) http.Handler {
	t.Helper()

	return api.NewRouter(t.Context(), &api.RouterDeps{
		Log:            testLogger(),
		Analytics:      svc,
		Version:        "test",
		SchemaVersion:  1,
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
}

func TestSocial_SerializesMetricUnderItsName(t *testing.T) {
	svc := &mockAnalytics{
		socialNetwork: func(context.Context) (*models.MetricGraph, error) {
			return &models.MetricGraph{
				Metric: "degree",
				Nodes: []models.MetricNode{
					{ID: 1, Username: "a", Metric: "degree", Value: 1, Size: 5000, Color: "#b15928"},
					{ID: 3, Username: "c", Metric: "degree", Value: 0, Size: 600, Color: "#a6cee3"},
				},
				Edges: []models.Edge{{Source: 1, Target: 2}},
			}, nil
		},
	}

	w := doRequest(newRouter(t, svc), "/api/v1/graph/social")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(body.Nodes) != 2 || body.Nodes[0]["degree"] != float64(1) || body.Nodes[1]["degree"] != float64(0) {
		t.Errorf("nodes: got %v", body.Nodes)
	}

	if _, hasWeight := body.Edges[0]["weight"]; hasWeight {
		t.Error("friendship edges must not carry a weight")
	}

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestDaysParameter(t *testing.T) {
	tests := []struct {
		query    string
		wantDays int
		wantCode int
	}{
		{query: "", wantDays: domain.ConfiguredWindow, wantCode: http.StatusOK},
		{query: "?days=7", wantDays: 7, wantCode: http.StatusOK},
		{query: "?days=0", wantDays: 0, wantCode: http.StatusOK},
		{query: "?days=week", wantCode: http.StatusBadRequest},
	}

	for _, path := range []string{"/api/v1/graph/messages", "/api/v1/graph/centrality", "/api/v1/graph/pagerank", "/api/v1/graph/hits"} {
		for _, tc := range tests {
			t.Run(path+tc.query, func(t *testing.T) {
				got := -100
				record := func(days int) { got = days }

				svc := &mockAnalytics{
					messageActivity: func(_ context.Context, days int) (*models.MetricGraph, error) {
						record(days)
						return &models.MetricGraph{}, nil
					},
					centrality: func(_ context.Context, days int) (*models.MetricGraph, error) {
						record(days)
						return &models.MetricGraph{}, nil
					},
					pageRank: func(_ context.Context, days, _ int) (*models.MetricGraph, error) {
						record(days)
						return &models.MetricGraph{}, nil
					},
					hits: func(_ context.Context, days int) (*models.HITSGraph, error) {
						record(days)
						return &models.HITSGraph{}, nil
					},
				}

				w := doRequest(newRouter(t, svc), path+tc.query)
				if w.Code != tc.wantCode {
					t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
				}

				if tc.wantCode != http.StatusOK {
					if code := decodeError(t, w); code != api.ErrCodeBadRequest {
						t.Errorf("expected bad_request, got %q", code)
					}

					return
				}

				if got != tc.wantDays {
					t.Errorf("days: got %d, want %d", got, tc.wantDays)
				}
			})
		}
	}
}

func TestPageRank_TopParameter(t *testing.T) {
	var gotTop int

	svc := &mockAnalytics{
		pageRank: func(_ context.Context, _, top int) (*models.MetricGraph, error) {
			gotTop = top
			return &models.MetricGraph{}, nil
		},
	}
	r := newRouter(t, svc)

	if w := doRequest(r, "/api/v1/graph/pagerank?top=5"); w.Code != http.StatusOK || gotTop != 5 {
		t.Errorf("top=5: status %d, top %d", w.Code, gotTop)
	}

	if w := doRequest(r, "/api/v1/graph/pagerank?top=999999"); w.Code != http.StatusOK || gotTop != 1000 {
		t.Errorf("large top: status %d, top %d", w.Code, gotTop)
	}

	if w := doRequest(r, "/api/v1/graph/pagerank?top=-1"); w.Code != http.StatusBadRequest {
		t.Errorf("negative top: expected 400, got %d", w.Code)
	}
}

func TestQueryParametersPassThrough(t *testing.T) {
	var user, from, to, window string

	svc := &mockAnalytics{
		communities: func(_ context.Context, username string) (*models.CommunityGraph, error) {
			user = username
			return &models.CommunityGraph{}, nil
		},
		shortestPath: func(_ context.Context, f, tt string) (*models.PathResult, error) {
			from, to = f, tt
			return &models.PathResult{Path: []int64{1}, SkippedUsers: -1}, nil
		},
		timeSeries: func(_ context.Context, w string) (*models.TimeSeries, error) {
			window = w
			return &models.TimeSeries{Window: w}, nil
		},
	}
	r := newRouter(t, svc)

	doRequest(r, "/api/v1/graph/communities?user=alice")
	doRequest(r, "/api/v1/graph/path?from=a&to=b")
	doRequest(r, "/api/v1/timeseries?window=24h")

	if user != "alice" || from != "a" || to != "b" || window != "24h" {
		t.Errorf("got user=%q from=%q to=%q window=%q", user, from, to, window)
	}
}

func TestPath_RequiresBothUsers(t *testing.T) {
	w := doRequest(newRouter(t, &mockAnalytics{}), "/api/v1/graph/path?from=a")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	if code := decodeError(t, w); code != api.ErrCodeBadRequest {
		t.Errorf("expected bad_request, got %q", code)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: days", models.ErrInvalidInput), http.StatusBadRequest, api.ErrCodeBadRequest},
		{fmt.Errorf("%w: \"zz\"", models.ErrUserNotFound), http.StatusNotFound, api.ErrCodeUserNotFound},
		{fmt.Errorf("a to b: %w", models.ErrNoPath), http.StatusNotFound, api.ErrCodeNoPath},
		{fmt.Errorf("%w: no users", models.ErrDataUnavailable), http.StatusNotFound, api.ErrCodeDataUnavailable},
		{fmt.Errorf("listing users: %w", models.ErrStoreUnavailable), http.StatusServiceUnavailable, api.ErrCodeStoreUnavailable},
		{fmt.Errorf("listing users: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, api.ErrCodeStoreUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, api.ErrCodeInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.wantCode, func(t *testing.T) {
			svc := &mockAnalytics{
				shortestPath: func(context.Context, string, string) (*models.PathResult, error) {
					return nil, tc.err
				},
			}

			w := doRequest(newRouter(t, svc), "/api/v1/graph/path?from=a&to=b")
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}

			if code := decodeError(t, w); code != tc.wantCode {
				t.Errorf("expected code %q, got %q", tc.wantCode, code)
			}
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	svc := &mockAnalytics{
		userBehavior: func(context.Context) (*models.UserBehaviorReport, error) {
			return nil, errors.New("pq: relation \"messages\" does not exist")
		},
	}

	w := doRequest(newRouter(t, svc), "/api/v1/users/behavior")

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body.Error.Message != "internal error" {
		t.Errorf("leaked detail: %q", body.Error.Message)
	}
}

func TestRoutesRegistered(t *testing.T) {
	r := newRouter(t, &mockAnalytics{})

	for _, path := range []string{
		"/api/v1/health",
		"/api/v1/ready",
		"/api/v1/graph/social",
		"/api/v1/graph/messages",
		"/api/v1/graph/centrality",
		"/api/v1/graph/pagerank",
		"/api/v1/graph/hits",
		"/api/v1/graph/communities",
		"/api/v1/timeseries",
		"/api/v1/users/behavior",
		"/api/v1/users/friend-distribution",
	} {
		if w := doRequest(r, path); w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}

	if w := doRequest(r, "/api/v1/graph/unknown"); w.Code != http.StatusNotFound {
		t.Errorf("unknown route: expected 404, got %d", w.Code)
	}
}
