package status

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// Metrics is a snapshot of the machine as far as disk cleanup cares.
type Metrics struct {
	Platform string        `json:"platform"`
	Hostname string        `json:"hostname"`
	Uptime   time.Duration `json:"uptime"`
	Volume   VolumeMetrics `json:"volume"`
	Memory   MemoryMetrics `json:"memory"`
}

// VolumeMetrics describes the filesystem holding the home directory.
type VolumeMetrics struct {
	Path        string  `json:"path"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"usedPercent"`
}

// MemoryMetrics is physical memory usage.
type MemoryMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

// Collect gathers metrics for the volume containing home. Volume usage is
// required; host and memory details are best effort.
func Collect(ctx context.Context, home string) (*Metrics, error) {
	usage, err := disk.UsageWithContext(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("volume usage for %s: %w", home, err)
	}

	m := &Metrics{
		Platform: core.PlatformString(ctx),
		Volume: VolumeMetrics{
			Path:        home,
			Fstype:      usage.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		},
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		m.Hostname = info.Hostname
		m.Uptime = time.Duration(info.Uptime) * time.Second
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		m.Memory = MemoryMetrics{Total: vm.Total, Used: vm.Used, UsedPercent: vm.UsedPercent}
	}
	return m, nil
}
