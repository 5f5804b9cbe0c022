package middleware

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"family-backend/internal/monitoring"
)

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// APILogging logs each API request and records its latency in the request
// histogram. Health checks and the metrics scrape are skipped.
func APILogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		path := sanitizePath(r.URL.Path)

		monitoring.RequestDuration.
			WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).
			Observe(duration.Seconds())

		log.Printf("[API] %s %s -> %d (%s, %dB)",
			r.Method, path, wrapped.statusCode, duration.Round(time.Millisecond), wrapped.bytesWritten)
	})
}

// shouldSkipLogging returns true for paths that shouldn't be logged.
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
	}
	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// sanitizePath strips query strings and truncates oversized paths before they
// reach logs or metric labels.
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 200 {
		path = path[:200]
	}
	return path
}
