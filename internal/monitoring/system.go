package monitoring

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is a point-in-time host snapshot for the monitoring endpoint.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
	DiskTotalGB   float64 `json:"disk_total_gb"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
}

// CollectSystemStats gathers current CPU, memory, disk and uptime figures.
// Collection is best effort; a probe that fails leaves its fields zero.
func CollectSystemStats() SystemStats {
	var stats SystemStats

	if percents, err := cpu.Percent(time.Second, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if v, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = v.UsedPercent
		stats.MemoryUsedMB = float64(v.Used) / 1024 / 1024
		stats.MemoryTotalMB = float64(v.Total) / 1024 / 1024
	}
	if d, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = d.UsedPercent
		stats.DiskUsedGB = float64(d.Used) / 1024 / 1024 / 1024
		stats.DiskTotalGB = float64(d.Total) / 1024 / 1024 / 1024
	}
	if info, err := host.Info(); err == nil {
		stats.UptimeSeconds = info.Uptime
	}

	return stats
}
