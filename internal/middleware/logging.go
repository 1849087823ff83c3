package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"eventease/internal/metrics"
)

// userHolder carries the authenticated user ID back out to the logger,
// which runs outside the auth middleware and never sees its derived
// context.
type userHolder struct {
	id string
}

const userHolderKey contextKey = "user_holder"

// Logger logs every request with its status, authenticated user and
// duration, and feeds the latency histogram.
func Logger(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			holder := &userHolder{}
			r = r.WithContext(context.WithValue(r.Context(), userHolderKey, holder))

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			userID := holder.id
			status := ww.Status()

			logFn := slog.Info
			if status >= 500 {
				logFn = slog.Error
			} else if status >= 400 {
				logFn = slog.Warn
			}
			logFn("Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"user_id", userID,
				"duration_ms", duration.Milliseconds(),
			)

			if m != nil {
				m.ObserveRequest(r.Method, routePattern(r), start)
			}
		})
	}
}

// routePattern returns the chi route template (e.g. /api/events/{id}) so
// metric labels stay low-cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
