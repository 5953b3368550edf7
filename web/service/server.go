package service

import (
	"runtime"
	"time"

	"bookshelf/config"
	"bookshelf/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/atomic"
)

// requestCount counts HTTP requests served since process start. Incremented
// by the counting middleware, reported on the admin status endpoint.
var requestCount atomic.Int64

// CountRequest records one served HTTP request.
func CountRequest() {
	requestCount.Inc()
}

// Status is a snapshot of host and process health for the admin page.
type Status struct {
	T        time.Time `json:"-"`
	Version  string    `json:"version"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime     uint64 `json:"uptime"`
	Goroutines int    `json:"goroutines"`
	Requests   int64  `json:"requests"`
}

// ServerService reports process and host status.
type ServerService struct{}

// GetStatus collects a status snapshot. Partial failures are logged and the
// remaining fields are still filled in.
func (s *ServerService) GetStatus() *Status {
	now := time.Now()
	status := &Status{
		T:          now,
		Version:    config.GetVersion(),
		Goroutines: runtime.NumGoroutine(),
		Requests:   requestCount.Load(),
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	cores, err := cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu core count failed:", err)
	} else {
		status.CpuCores = cores
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	uptime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = uptime
	}

	return status
}
