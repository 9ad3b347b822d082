package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

// lines decodes every JSON record written to buf.
func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err != nil {
			t.Fatalf("failed to parse log line %q: %v", l, err)
		}
		out = append(out, m)
	}
	return out
}

func last(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	all := lines(t, buf)
	if len(all) == 0 {
		t.Fatal("no log output")
	}
	return all[len(all)-1]
}

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.level)
			log.Debug("d")
			log.Info("i")
			log.Warn("w")

			got := map[string]bool{}
			for _, e := range lines(t, &buf) {
				got[e["msg"].(string)] = true
			}
			if got["d"] != tt.wantDebug || got["i"] != tt.wantInfo || got["w"] != tt.wantWarn {
				t.Fatalf("level %q emitted %v", tt.level, got)
			}
		})
	}
}

func TestNop_Discards(t *testing.T) {
	log := Nop()
	log.Error("nothing to see")
	if log.ToSlog() == nil {
		t.Fatal("expected underlying slog logger")
	}
}

func TestWith_BindsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With("component", "inventory")
	log.Info("saved", "op", "add_item")

	entry := last(t, &buf)
	if entry["component"] != "inventory" || entry["op"] != "add_item" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestErrorContext_InjectsTrace(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	ctx, span := otel.Tracer("test").Start(context.Background(), "save")
	defer span.End()

	log.ErrorContext(ctx, "persist failed", "error", errors.New("disk full"), "op", "add_item")

	entry := last(t, &buf)
	if _, ok := entry["trace_id"]; !ok {
		t.Error("expected trace_id")
	}
	if _, ok := entry["span_id"]; !ok {
		t.Error("expected span_id")
	}
	if entry["error"] == nil {
		t.Error("expected error field")
	}
}

func TestInfoContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	log.InfoContext(context.Background(), "no span")

	entry := last(t, &buf)
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id should not be present without an active span")
	}
}

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Post("/api/items", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/items", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := last(t, &buf)
	if _, ok := entry["request_id"]; !ok {
		t.Error("expected request_id in request log")
	}
	if entry["method"] != "POST" || entry["path"] != "/api/items" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusCreated) {
		t.Errorf("expected status 201, got %v", entry["status"])
	}
}

func TestRecovery_Returns500(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected JSON error body, got %q", rec.Body.String())
	}
	if entry := last(t, &buf); entry["msg"] != "panic recovered" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		path      string
		status    int
		wantLevel string
	}{
		{"/api/items", http.StatusOK, "INFO"},
		{"/api/items", http.StatusNotFound, "WARN"},
		{"/api/items", http.StatusInternalServerError, "ERROR"},
		{"/health", http.StatusOK, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.path+"_"+http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			h := Middleware(NewWithWriter(&buf, "debug"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			if got := last(t, &buf)["level"]; got != tt.wantLevel {
				t.Errorf("level = %v, want %s", got, tt.wantLevel)
			}
		})
	}
}

func TestMiddleware_RoutePattern(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(Middleware(NewWithWriter(&buf, "info")))
	r.Get("/api/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/items/abc", http.NoBody))

	entry := last(t, &buf)
	if entry["route"] != "/api/items/{id}" {
		t.Errorf("route = %v", entry["route"])
	}
	if entry["bytes"] != float64(2) {
		t.Errorf("bytes = %v", entry["bytes"])
	}
}
