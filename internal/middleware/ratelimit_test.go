package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/netgraph/internal/httputil"
	"github.com/persistorai/netgraph/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.Use(middleware.NewRateLimiter(ctx, rps, burst).Handler())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func getFrom(r http.Handler, addr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.RemoteAddr = addr
	r.ServeHTTP(w, req)

	return w
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	r := limitedRouter(t, 10, 5)

	if w := getFrom(r, "1.2.3.4:1234"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRateLimiter_BlocksExceedingLimit(t *testing.T) {
	r := limitedRouter(t, 0.001, 2)

	for i := range 2 {
		if w := getFrom(r, "1.2.3.4:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := getFrom(r, "1.2.3.4:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	var body httputil.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	if body.Error.Code != "rate_limited" {
		t.Errorf("expected rate_limited, got %q", body.Error.Code)
	}
}

func TestRateLimiter_IndependentBuckets(t *testing.T) {
	r := limitedRouter(t, 0.001, 1)

	getFrom(r, "1.1.1.1:1000")

	if w := getFrom(r, "2.2.2.2:1000"); w.Code != http.StatusOK {
		t.Fatalf("different IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimiter_TokensRefillOverTime(t *testing.T) {
	r := limitedRouter(t, 1_000_000, 2)

	for range 2 {
		getFrom(r, "5.5.5.5:1000")
	}

	if w := getFrom(r, "5.5.5.5:1000"); w.Code != http.StatusOK {
		t.Fatalf("expected tokens to refill, got %d", w.Code)
	}
}
