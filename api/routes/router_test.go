package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics.New(registry)

	orderLog := billing.NewOrderLog(filepath.Join(t.TempDir(), "orders.json"))
	if err := orderLog.Append(billing.Record{UserID: "whatsapp:+911", Total: 250}); err != nil {
		t.Fatalf("seed order log: %v", err)
	}

	return NewRouter(RouterParams{
		Config: &config.Config{
			App: config.AppConfig{Env: "dev", VerifyToken: "token123"},
		},
		Orders:       orderLog,
		PromGatherer: registry,
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Craftline-Env"); got != "dev" {
		t.Fatalf("env header = %q", got)
	}
}

func TestRouterChatVerification(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=token123&hub.challenge=xyz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "xyz" {
		t.Fatalf("verification failed: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouterLatestOrder(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/latest-order", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":250`) {
		t.Fatalf("body missing record: %s", rec.Body.String())
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("request id header not set")
	}
}
