package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/stocktake/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func probe(t *testing.T, checks httpx.HealthChecks) (int, healthBody) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	var body healthBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, body
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	code, body := probe(t, httpx.HealthChecks{
		"storage": &stubChecker{},
		"redis":   &stubChecker{},
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Status != "ok" || body.Checks["storage"] != "ok" || body.Checks["redis"] != "ok" {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestHealthHandler_StorageDown(t *testing.T) {
	code, body := probe(t, httpx.HealthChecks{
		"storage": &stubChecker{err: errors.New("conn refused")},
		"redis":   &stubChecker{},
	})
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if body.Status != "degraded" || body.Checks["storage"] != "unreachable" || body.Checks["redis"] != "ok" {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestHealthHandler_DisabledDependency(t *testing.T) {
	code, body := probe(t, httpx.HealthChecks{
		"storage":   &stubChecker{},
		"redis":     nil,
		"event_bus": nil,
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Checks["redis"] != "disabled" || body.Checks["event_bus"] != "disabled" {
		t.Errorf("expected disabled checks: %+v", body)
	}
}

func TestHealthHandler_AllDown(t *testing.T) {
	code, body := probe(t, httpx.HealthChecks{
		"storage":   &stubChecker{err: errors.New("down")},
		"redis":     &stubChecker{err: errors.New("down")},
		"event_bus": &stubChecker{err: errors.New("down")},
	})
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	for name, state := range body.Checks {
		if state != "unreachable" {
			t.Errorf("%s: got %q, want unreachable", name, state)
		}
	}
}

func TestHealthHandler_ContentType(t *testing.T) {
	h := httpx.HealthHandler(httpx.HealthChecks{"storage": &stubChecker{}})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	ct := rr.Header().Get("Content-Type")
	if ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json; charset=utf-8")
	}
}
