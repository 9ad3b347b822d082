package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// JSON writes v as JSON with the given status code. Encoding errors after
// the header is sent cannot be reported and are dropped.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", contentTypeJSON)
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NoContent writes 204 with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// CSVAttachment sends a 200 text/csv download named filename and lets
// write fill the body. Errors from write arrive after the status line and
// are returned for logging only.
func CSVAttachment(w http.ResponseWriter, filename string, write func(io.Writer) error) error {
	h := w.Header()
	h.Set("Content-Type", contentTypeCSV)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	return write(w)
}

// SafeError returns the message to show a client. In production 5xx
// messages are replaced with the status text.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
