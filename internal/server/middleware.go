// Request logging middleware.

package server

import (
	"log/slog"
	"net/http"
	"time"
)

// LogRequests logs one line per request with method, path, status, client,
// and duration.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		slog.InfoContext(r.Context(), "http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"ip", clientIP(r),
			"dur", time.Since(start).Round(time.Millisecond))
	})
}
