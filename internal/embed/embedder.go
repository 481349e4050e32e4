// Package embed wraps a Genkit embedder with the per-call bounds the
// retrieval engine requires: a timeout on every upstream call and a rate
// limiter shared across corpus rebuilds and query embedding.
package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	chromem "github.com/philippgille/chromem-go"
	"golang.org/x/time/rate"
)

// Provider embeds text through a Genkit ai.Embedder with bounded calls.
// Safe for concurrent use.
type Provider struct {
	embedder ai.Embedder
	timeout  time.Duration
	limiter  *rate.Limiter
}

// New creates a provider. A non-positive timeout disables the per-call
// deadline; a non-positive ratePerSecond disables rate limiting.
func New(embedder ai.Embedder, timeout time.Duration, ratePerSecond float64) *Provider {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1)
	}
	return &Provider{embedder: embedder, timeout: timeout, limiter: limiter}
}

// Embed returns the embedding vector for a single text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one upstream request. The result has one
// vector per input, in input order.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for embed rate limiter: %w", err)
		}
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	docs := make([]*ai.Document, len(texts))
	for i, text := range texts {
		docs[i] = ai.DocumentFromText(text, nil)
	}

	resp, err := p.embedder.Embed(ctx, &ai.EmbedRequest{Input: docs})
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Embedding
	}
	return vectors, nil
}

// EmbeddingFunc adapts the provider to chromem-go's embedding callback.
// chromem-go normalizes vectors itself, so none is done here.
func (p *Provider) EmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return p.Embed(ctx, text)
	}
}
