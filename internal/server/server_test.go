package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/recruitdesk/apiserver/internal/activity"
	"github.com/recruitdesk/apiserver/internal/handlers"
	"github.com/recruitdesk/apiserver/internal/metrics"
	"github.com/recruitdesk/apiserver/internal/middleware"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/types"
)

// rejectingAuth treats every token as expired; route tests never get past the gate.
type rejectingAuth struct {
	handlers.AccountService
}

func (rejectingAuth) Authenticate(ctx context.Context, token string) (types.User, error) {
	return types.User{}, services.ErrInvalidToken
}

func newTestRouter(t *testing.T, max int) (http.Handler, *bytes.Buffer) {
	t.Helper()
	registry := prometheus.NewRegistry()
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Max: max, Window: time.Hour})
	recorder := activity.NewRecorder(activity.SinkFunc(func(context.Context, types.ActivityLog) error { return nil }))
	t.Cleanup(func() {
		limiter.Stop()
		_ = recorder.Close(context.Background())
	})

	var logs bytes.Buffer
	router := newRouter(routes{
		accounts:       rejectingAuth{},
		recorder:       recorder,
		metrics:        metrics.NewCollector(registry),
		gatherer:       registry,
		limiter:        limiter,
		logger:         slog.New(slog.NewJSONHandler(&logs, nil)),
		allowedOrigins: []string{"https://hr.example.com"},
	})
	return router, &logs
}

func get(h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthzAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t, 10)

	if rr := get(router, "/healthz", nil); rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rr.Code, rr.Body.String())
	}

	rr := get(router, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "recruitdesk_http_requests_total") {
		t.Fatalf("metrics body missing request counter:\n%s", rr.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, logs := newTestRouter(t, 10)

	for _, path := range []string{"/api/jobs", "/api/candidates", "/api/interviews", "/api/offerLetter", "/api/users/me", "/api/dashboard", "/api/admin/users"} {
		if rr := get(router, path, nil); rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token = %d, want 401", path, rr.Code)
		}
	}
	rr := get(router, "/api/jobs", http.Header{"Authorization": {"Bearer stale"}})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("stale token = %d, want 403", rr.Code)
	}
	if !strings.Contains(logs.String(), `"msg":"http_request"`) {
		t.Fatalf("expected request log, got %s", logs.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	req.Header.Set("Origin", "https://hr.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://hr.example.com" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin %q for unknown origin", got)
	}
}

func TestAPIRateLimited(t *testing.T) {
	router, _ := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		if rr := get(router, "/api/jobs", nil); rr.Code != http.StatusUnauthorized {
			t.Fatalf("request %d = %d", i, rr.Code)
		}
	}
	rr := get(router, "/api/jobs", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}

	if rr := get(router, "/healthz", nil); rr.Code != http.StatusOK {
		t.Fatalf("healthz is not rate limited, got %d", rr.Code)
	}
}
