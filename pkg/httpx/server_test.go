package httpx_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/stocktake/pkg/httpx"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	h := newTestRouter(httpx.ServerConfig{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": httpx.SecurityOptions(false).ContentSecurityPolicy,
	}
	for header, v := range want {
		if got := rr.Header().Get(header); got != v {
			t.Errorf("%s = %q, want %q", header, got, v)
		}
	}
	// Strict-Transport-Security is only sent over TLS.
	if got := rr.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("unexpected HSTS on plain HTTP: %q", got)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	const limit = 16
	h := httpx.RequestBodyLimit(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		size int
		want int
	}{
		{"under", limit - 1, http.StatusOK},
		{"exact", limit, http.StatusOK},
		{"over", limit + 1, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			body := strings.NewReader(strings.Repeat("x", tt.size))
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", body))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
