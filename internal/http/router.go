package http

import (
	"net/http"

	"family-backend/internal/handlers"
	"family-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API routes and the shared middleware chain.
func NewRouter(memberHandler *handlers.MemberHandler, monitoringHandler *handlers.MonitoringHandler) http.Handler {
	r := mux.NewRouter()

	// Health and monitoring
	r.HandleFunc("/health", monitoringHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/monitoring/system", monitoringHandler.System).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Family members
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/members", memberHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/members", memberHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/members/{id}", memberHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/members/{id}", memberHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/members/{id}/relations", memberHandler.Relations).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}/options", memberHandler.Options).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = middleware.GzipCompression(handler)
	handler = middleware.APILogging(handler)
	handler = middleware.APIRateLimiter.Middleware(handler)
	handler = middleware.SecurityHeaders(handler)
	return handler
}
