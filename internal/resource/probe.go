// Package resource provides runtime resource probing for mode selection.
//
// The retrieval engine never inspects the OS directly; it depends on the
// Probe interface so tests can substitute fixed snapshots.
package resource

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot describes the resources available to the process at probe time.
type Snapshot struct {
	AvailableMemoryBytes uint64
	CPUCores             int
}

// AvailableMemoryGB returns available memory in gigabytes.
func (s Snapshot) AvailableMemoryGB() float64 {
	return float64(s.AvailableMemoryBytes) / (1 << 30)
}

// Probe reports resource availability. Implementations must be safe for
// concurrent use.
type Probe interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// SystemProbe reads live OS metrics via gopsutil. Snapshots are cached for a
// short interval so repeated mode checks don't hammer /proc.
type SystemProbe struct {
	logger *slog.Logger

	mu       sync.Mutex
	cached   Snapshot
	cachedAt time.Time
	cacheTTL time.Duration
}

// NewSystemProbe creates a probe backed by gopsutil.
func NewSystemProbe(logger *slog.Logger) *SystemProbe {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemProbe{
		logger:   logger,
		cacheTTL: 2 * time.Second,
	}
}

// Snapshot returns current available memory and CPU core count.
// CPU count failures fall back to runtime.NumCPU; memory failures are
// returned to the caller, which treats the probe as unavailable.
func (p *SystemProbe) Snapshot(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cachedAt.IsZero() && time.Since(p.cachedAt) < p.cacheTTL {
		return p.cached, nil
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading virtual memory: %w", err)
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		p.logger.Debug("cpu count probe failed, using runtime.NumCPU", "error", err)
		cores = runtime.NumCPU()
	}

	p.cached = Snapshot{
		AvailableMemoryBytes: vm.Available,
		CPUCores:             cores,
	}
	p.cachedAt = time.Now()

	p.logger.Debug("probed system resources",
		"available_gb", fmt.Sprintf("%.1f", p.cached.AvailableMemoryGB()),
		"cpu_cores", cores)

	return p.cached, nil
}

// Static is a Probe returning a fixed snapshot. Used in tests and in
// deployments that pin resource characteristics via configuration.
type Static struct {
	Value Snapshot
	Err   error
}

// Snapshot returns the fixed snapshot or error.
func (s Static) Snapshot(context.Context) (Snapshot, error) {
	if s.Err != nil {
		return Snapshot{}, s.Err
	}
	return s.Value, nil
}
