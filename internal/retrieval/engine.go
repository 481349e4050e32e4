package retrieval

import (
	"context"
	"log/slog"

	"github.com/growthsuite/gschat/internal/knowledge"
)

// Result pairs a retrieved fragment with its relevance score. Vector-mode
// scores are cosine similarities; keyword-mode scores are weighted token
// match counts. Scores are comparable within one result set only.
type Result struct {
	Fragment knowledge.Fragment
	Score    float64
}

// Engine executes the retrieval strategy of a cache generation.
// Stateless apart from the scoring policy; safe for concurrent use.
type Engine struct {
	weights map[string]float64
	logger  *slog.Logger
}

// NewEngine creates an engine. weights scale keyword scores per fragment
// category; missing categories default to 1.0. Vector similarity is never
// weighted.
func NewEngine(weights map[string]float64, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{weights: weights, logger: logger}
}

// Retrieve returns at most topK fragments from the entry's corpus, ordered
// by descending score with ties kept in corpus order. Every failure path
// returns a shorter or empty slice, never an error.
func (e *Engine) Retrieve(ctx context.Context, entry *Entry, query string, topK int) []Result {
	if entry == nil || topK <= 0 || len(entry.Corpus) == 0 || query == "" {
		return nil
	}

	var results []Result
	if entry.Mode == ModeVector && entry.Index != nil {
		results = scoreVector(ctx, entry.Index, entry.Corpus, query, topK, e.logger)
	} else {
		results = scoreKeyword(entry.Corpus, query, e.weights)
	}

	if len(results) > topK {
		results = results[:topK]
	}
	e.logger.Debug("retrieved fragments",
		"mode", entry.Mode, "query_len", len(query), "top_k", topK, "returned", len(results))
	return results
}
