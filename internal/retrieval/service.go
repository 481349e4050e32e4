package retrieval

import (
	"context"
	"log/slog"
)

// Document is the external shape of a retrieved fragment, handed to the
// prompt assembler or printed by the CLI.
type Document struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// RefreshResult reports the outcome of an explicit corpus rebuild.
type RefreshResult struct {
	Success       bool `json:"success"`
	FragmentCount int  `json:"fragment_count"`
}

// Status describes the currently served cache generation.
type Status struct {
	Mode          string  `json:"mode"`
	FragmentCount int     `json:"fragment_count"`
	AgeSeconds    float64 `json:"age_seconds"`
}

// Service is the retrieval facade consumed by the chat orchestration
// layer. Retrieval is best-effort context enrichment: no method returns an
// error, and a conversation turn must never fail because retrieval did.
type Service struct {
	cache    *Cache
	engine   *Engine
	override Mode
	logger   *slog.Logger
}

// NewService creates the facade. override forces a retrieval mode for
// every request this service makes; empty means no override.
func NewService(cache *Cache, engine *Engine, override Mode, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: cache, engine: engine, override: override, logger: logger}
}

// Retrieve returns at most topK fragments relevant to the query, building
// or refreshing the cached corpus first when needed.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) []Document {
	entry := s.cache.GetOrBuild(ctx, false, s.override)

	results := s.engine.Retrieve(ctx, entry, query, topK)
	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = Document{
			Content: r.Fragment.Content,
			Source:  r.Fragment.Source,
			Score:   r.Score,
		}
	}
	return docs
}

// Refresh forces a rebuild of the corpus regardless of cache age.
// Success is false only when the rebuild produced an empty corpus.
func (s *Service) Refresh(ctx context.Context) RefreshResult {
	entry := s.cache.GetOrBuild(ctx, true, s.override)
	return RefreshResult{
		Success:       len(entry.Corpus) > 0,
		FragmentCount: len(entry.Corpus),
	}
}

// CurrentStatus describes the served generation. ok is false when nothing
// has been built yet.
func (s *Service) CurrentStatus() (Status, bool) {
	entry := s.cache.Current()
	if entry == nil {
		return Status{}, false
	}
	return Status{
		Mode:          string(entry.Mode),
		FragmentCount: len(entry.Corpus),
		AgeSeconds:    entry.Age().Seconds(),
	}, true
}

// Invalidate marks the cached corpus stale so the next retrieval rebuilds.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
	s.logger.Info("knowledge cache invalidated")
}
