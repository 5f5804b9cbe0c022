package handlers

import (
	"net/http"

	"family-backend/internal/health"
	"family-backend/internal/monitoring"
)

// MonitoringHandler serves the health check and host stats endpoints.
type MonitoringHandler struct {
	checker *health.HealthChecker
}

func NewMonitoringHandler(checker *health.HealthChecker) *MonitoringHandler {
	return &MonitoringHandler{checker: checker}
}

// Health returns overall service health. 503 when the storage probe fails so
// load balancers and uptime checks see it.
func (h *MonitoringHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// System returns current host CPU/memory/disk figures.
func (h *MonitoringHandler) System(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, monitoring.CollectSystemStats())
}
