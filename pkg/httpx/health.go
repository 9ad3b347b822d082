package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (Database, RedisClient, EventBus and the repositories all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks names the dependencies to probe in the health endpoint.
// A nil checker is reported as "disabled" and does not degrade the status,
// since most dependencies are optional for a given storage backend.
type HealthChecks map[string]HealthChecker

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler returns an http.HandlerFunc that probes all registered
// HealthCheckers and reports degraded status if any of them fail.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		for name, c := range checks {
			switch {
			case c == nil:
				resp.Checks[name] = "disabled"
			case c.Ping(ctx) != nil:
				resp.Status = "degraded"
				resp.Checks[name] = "unreachable"
			default:
				resp.Checks[name] = "ok"
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
