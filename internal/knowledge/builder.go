package knowledge

import (
	"context"
	"log/slog"
)

// Builder aggregates fragments from a fixed, priority-ordered list of
// adapters into one corpus per cache generation.
//
// Priority order is the registration order: stable sources first
// (documentation, schema, conversation, code, config), so the global cap
// always drops the most volatile fragments.
type Builder struct {
	adapters []Adapter
	logger   *slog.Logger
}

// NewBuilder creates a corpus builder. Adapters must be passed in priority
// order; nil entries are skipped so callers can toggle adapters off.
func NewBuilder(logger *slog.Logger, adapters ...Adapter) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		if a != nil {
			kept = append(kept, a)
		}
	}
	return &Builder{adapters: kept, logger: logger}
}

// Build collects from every adapter and returns the combined corpus,
// truncated to maxDocs fragments. Build never fails: an erroring adapter
// contributes whatever it gathered before the error, and the failure is
// logged at the boundary where it is absorbed.
func (b *Builder) Build(ctx context.Context, maxDocs int) Corpus {
	var corpus Corpus

	for _, adapter := range b.adapters {
		fragments, err := adapter.Collect(ctx)
		if err != nil {
			b.logger.Warn("knowledge adapter failed, continuing without it",
				"adapter", adapter.Name(), "partial", len(fragments), "error", err)
		}
		corpus = append(corpus, fragments...)
	}

	if maxDocs > 0 && len(corpus) > maxDocs {
		b.logger.Debug("truncating corpus to document cap",
			"total", len(corpus), "cap", maxDocs)
		corpus = corpus[:maxDocs]
	}

	return corpus
}
