package health

import (
	"context"
	"runtime"
	"time"

	"family-backend/internal/storage"
)

// HealthChecker probes the storage collaborator with a timed load so the
// health endpoint reflects whether mutations could actually persist.
type HealthChecker struct {
	store storage.Store
}

type HealthStatus struct {
	Status     string        `json:"status"`
	Storage    StorageHealth `json:"storage"`
	Goroutines int           `json:"goroutines"`
	Memory     MemoryStats   `json:"memory"`
}

type StorageHealth struct {
	Status       string `json:"status"`
	Members      int    `json:"members"`
	ResponseTime int64  `json:"response_time_ms"`
}

type MemoryStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	NumGC        uint32  `json:"num_gc"`
}

func NewHealthChecker(store storage.Store) *HealthChecker {
	return &HealthChecker{store: store}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	storageHealth := h.checkStorage()

	status := "healthy"
	if storageHealth.Status != "healthy" {
		status = "unhealthy"
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return HealthStatus{
		Status:     status,
		Storage:    storageHealth,
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryStats{
			AllocMB:      float64(memStats.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(memStats.Sys) / 1024 / 1024,
			NumGC:        memStats.NumGC,
		},
	}
}

func (h *HealthChecker) checkStorage() StorageHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	members, err := h.store.Load(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return StorageHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return StorageHealth{
		Status:       "healthy",
		Members:      len(members),
		ResponseTime: responseTime,
	}
}
