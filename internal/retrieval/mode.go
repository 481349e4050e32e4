// Package retrieval selects fragments relevant to a query from the
// assembled knowledge corpus.
//
// Two strategies exist: vector similarity over a chromem-go index, and
// keyword containment scoring over raw fragment text. A resource-aware
// selector picks the strategy per cache generation; every failure path
// degrades to fewer or zero fragments, never to an error reaching the
// chat turn.
package retrieval

import (
	"context"
	"log/slog"

	"github.com/growthsuite/gschat/internal/resource"
)

// Mode is the retrieval strategy in effect for one cache generation.
type Mode string

const (
	// ModeVector ranks fragments by embedding similarity.
	ModeVector Mode = "vector"

	// ModeKeyword ranks fragments by query-token containment counts.
	ModeKeyword Mode = "keyword"
)

// Vector mode needs headroom for the in-memory index and embedding calls.
// Below either floor the cheaper keyword strategy is always chosen.
const (
	minVectorMemoryBytes = 2 << 30
	minVectorCPUCores    = 2
)

// Selector decides the retrieval mode for a cache generation.
//
// Precedence: an explicit per-call override wins outright. A configured
// "keyword" preference is always honored. A probe reporting constrained
// resources forces keyword even when the configuration prefers vector.
// Otherwise a configured "vector" preference is honored, and with no
// preference the probe decides, failing toward keyword when it cannot
// answer.
type Selector struct {
	configured Mode
	probe      resource.Probe
	logger     *slog.Logger
}

// NewSelector creates a selector. configured holds the static preference;
// values other than ModeVector and ModeKeyword mean no preference. probe
// may be nil, which counts as an unavailable probe.
func NewSelector(configured Mode, probe resource.Probe, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{configured: configured, probe: probe, logger: logger}
}

// Select returns the mode to build the next cache generation with.
// An empty override means no override.
func (s *Selector) Select(ctx context.Context, override Mode) Mode {
	if override == ModeVector || override == ModeKeyword {
		return override
	}
	if s.configured == ModeKeyword {
		return ModeKeyword
	}

	constrained, known := s.probeConstrained(ctx)
	if known && constrained {
		if s.configured == ModeVector {
			s.logger.Info("overriding configured vector mode, resources constrained")
		}
		return ModeKeyword
	}
	if s.configured == ModeVector {
		return ModeVector
	}
	if !known {
		// No probe answer and no preference: the cheap strategy is the
		// only one guaranteed to work.
		return ModeKeyword
	}
	return ModeVector
}

// probeConstrained reports whether the system is below the vector-mode
// floors. known is false when no probe answer could be obtained.
func (s *Selector) probeConstrained(ctx context.Context) (constrained, known bool) {
	if s.probe == nil {
		return false, false
	}
	snap, err := s.probe.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("resource probe unavailable", "error", err)
		return false, false
	}
	if snap.AvailableMemoryBytes < minVectorMemoryBytes || snap.CPUCores < minVectorCPUCores {
		s.logger.Debug("constrained resources detected",
			"available_memory_gb", snap.AvailableMemoryGB(), "cpu_cores", snap.CPUCores)
		return true, true
	}
	return false, true
}
