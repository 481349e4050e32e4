package retrieval

import (
	"context"
	"log/slog"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/growthsuite/gschat/internal/knowledge"
)

// scoreVector ranks the corpus by cosine similarity between the query
// embedding and each fragment's precomputed embedding. Document IDs are
// corpus positions, so results map back to fragments without carrying
// content through the index. Any failure, including embedding the query,
// yields an empty result.
func scoreVector(ctx context.Context, index *chromem.Collection, corpus knowledge.Corpus, query string, topK int, logger *slog.Logger) []Result {
	n := topK
	if count := index.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil
	}

	hits, err := index.Query(ctx, query, n, nil, nil)
	if err != nil {
		logger.Warn("vector query failed, returning no context", "error", err)
		return nil
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		idx, err := strconv.Atoi(hit.ID)
		if err != nil || idx < 0 || idx >= len(corpus) {
			logger.Warn("index returned unknown document id", "id", hit.ID)
			continue
		}
		results = append(results, Result{
			Fragment: corpus[idx],
			Score:    float64(hit.Similarity),
		})
	}
	return results
}
