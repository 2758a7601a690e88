package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// MetricsHandler serves a point-in-time system snapshot for the admin
// dashboard. No history is kept; the panel polls.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

type metricSample struct {
	CapturedAt        time.Time `json:"captured_at"`
	ProcessMemBytes   int64     `json:"process_mem_bytes"`
	SystemMemoryTotal int64     `json:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `json:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `json:"disk_total_bytes"`
	DiskUsedBytes     int64     `json:"disk_used_bytes"`
	ProcessCPULoad    float64   `json:"process_cpu_load"`
	SystemCPULoad     float64   `json:"system_cpu_load"`
}

func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	sample := metricSample{CapturedAt: time.Now().UTC()}

	if memStat, err := mem.VirtualMemory(); err == nil {
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	if diskStat, err := disk.Usage("/"); err == nil {
		sample.DiskTotalBytes = int64(diskStat.Total)
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if rss, err := proc.MemoryInfo(); err == nil && rss != nil {
			sample.ProcessMemBytes = int64(rss.RSS)
		}
		if cpuPerc, err := proc.CPUPercent(); err == nil {
			sample.ProcessCPULoad = cpuPerc / 100.0
		}
	}
	if sysCPU, err := cpu.Percent(0, false); err == nil && len(sysCPU) > 0 {
		sample.SystemCPULoad = sysCPU[0] / 100.0
	}

	return c.JSON(sample)
}
