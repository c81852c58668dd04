// Package httptransport assembles the HTTP surface: the public decision
// endpoint, the JWT-guarded admin group, health probes, and metrics.
package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fraudgate/internal/decision/handler"
	"fraudgate/internal/platform/middleware"
	"fraudgate/pkg/platform/httputil"
)

// ReadinessCheck pings one backing dependency. Name appears in the /readyz
// response body.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter wires all endpoints. validator guards the admin group; limiter
// caps the public decision endpoint when non-nil; checks drive /readyz.
func NewRouter(h *handler.Handler, validator middleware.TokenValidator, limiter *middleware.RateLimiter, checks []ReadinessCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestMeta)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			h.Register(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(validator))
			h.RegisterAdmin(r)
		})
	})

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(checks))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz pings every configured dependency with a short deadline.
// Any failure turns the probe red with the failing dependencies listed.
func handleReadyz(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				status[c.Name] = err.Error()
				healthy = false
			} else {
				status[c.Name] = "ok"
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, status)
	}
}
