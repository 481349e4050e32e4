package retrieval

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/growthsuite/gschat/internal/knowledge"
)

// CorpusSource assembles the corpus for a cache generation. The builder
// contract is best-effort: a source never fails, it returns whatever its
// adapters produced.
type CorpusSource interface {
	Corpus(ctx context.Context, mode Mode) knowledge.Corpus
}

// CorpusSourceFunc adapts a function to CorpusSource.
type CorpusSourceFunc func(ctx context.Context, mode Mode) knowledge.Corpus

// Corpus implements CorpusSource.
func (f CorpusSourceFunc) Corpus(ctx context.Context, mode Mode) knowledge.Corpus {
	return f(ctx, mode)
}

// EmbeddingProvider is the slice of the embedding layer the cache needs to
// build a vector index.
type EmbeddingProvider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingFunc() chromem.EmbeddingFunc
}

// Entry is one immutable cache generation. Corpus and Index are built
// together; an Index is only ever queried against the corpus it was built
// from. A nil Index with Mode == ModeKeyword is the degraded form of a
// vector generation whose embedding step failed.
type Entry struct {
	Corpus  knowledge.Corpus
	Index   *chromem.Collection
	Mode    Mode
	BuiltAt time.Time
}

// Age returns how long ago the entry was built.
func (e *Entry) Age() time.Duration { return time.Since(e.BuiltAt) }

// Cache holds the current corpus generation and rebuilds it on demand.
//
// Reads are lock-free through an atomic pointer. Rebuilds are serialized
// by a mutex and BLOCK concurrent requests until the new generation is
// published; requests never observe a partially built entry. Blocking was
// chosen over serving the stale entry so every caller sees the refresh it
// may itself have triggered.
type Cache struct {
	ttl      time.Duration
	selector *Selector
	source   CorpusSource
	embedder EmbeddingProvider
	logger   *slog.Logger

	current   atomic.Pointer[Entry]
	rebuildMu sync.Mutex
}

// NewCache creates a cache. embedder may be nil, which limits every
// generation to keyword mode.
func NewCache(ttl time.Duration, selector *Selector, source CorpusSource, embedder EmbeddingProvider, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		ttl:      ttl,
		selector: selector,
		source:   source,
		embedder: embedder,
		logger:   logger,
	}
}

// Current returns the published entry without triggering a rebuild, or nil
// when nothing has been built yet.
func (c *Cache) Current() *Entry {
	return c.current.Load()
}

// GetOrBuild returns a fresh entry, rebuilding first when none exists, the
// current one is stale, or force is set. override carries a per-call mode
// override into the selector; empty means none.
func (c *Cache) GetOrBuild(ctx context.Context, force bool, override Mode) *Entry {
	if !force {
		if entry := c.current.Load(); entry != nil && entry.Age() <= c.ttl {
			return entry
		}
	}

	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	// A rebuild that finished while this request waited on the mutex
	// already serves the need, unless the caller demanded its own.
	if !force {
		if entry := c.current.Load(); entry != nil && entry.Age() <= c.ttl {
			return entry
		}
	}

	entry := c.build(ctx, override)
	c.current.Store(entry)
	return entry
}

// Invalidate marks the current entry stale so the next access rebuilds.
// No-op when nothing has been built yet.
func (c *Cache) Invalidate() {
	entry := c.current.Load()
	if entry == nil {
		return
	}
	stale := *entry
	stale.BuiltAt = time.Time{}
	c.current.Store(&stale)
}

// build assembles a new generation. It cannot fail: corpus assembly is
// best-effort and a failed index build degrades the generation to keyword.
func (c *Cache) build(ctx context.Context, override Mode) *Entry {
	start := time.Now()
	mode := c.selector.Select(ctx, override)
	corpus := c.source.Corpus(ctx, mode)

	entry := &Entry{
		Corpus:  corpus,
		Mode:    mode,
		BuiltAt: time.Now(),
	}
	if mode == ModeVector {
		if index := c.buildIndex(ctx, corpus); index != nil {
			entry.Index = index
		} else {
			entry.Mode = ModeKeyword
		}
	}

	c.logger.Info("built knowledge corpus",
		"mode", entry.Mode,
		"fragments", len(corpus),
		"indexed", entry.Index != nil,
		"duration", time.Since(start))
	return entry
}

// buildIndex embeds the whole corpus in one batch and loads the vectors
// into a fresh in-memory collection. Returns nil on any failure, which the
// caller treats as a keyword-only generation.
func (c *Cache) buildIndex(ctx context.Context, corpus knowledge.Corpus) *chromem.Collection {
	if c.embedder == nil || len(corpus) == 0 {
		return nil
	}

	texts := make([]string, len(corpus))
	for i, fragment := range corpus {
		texts[i] = fragment.Content
	}
	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		c.logger.Warn("corpus embedding failed, degrading to keyword mode", "error", err)
		return nil
	}

	collection, err := chromem.NewDB().CreateCollection("knowledge", nil, c.embedder.EmbeddingFunc())
	if err != nil {
		c.logger.Warn("creating vector collection failed, degrading to keyword mode", "error", err)
		return nil
	}

	docs := make([]chromem.Document, len(corpus))
	for i, fragment := range corpus {
		docs[i] = chromem.Document{
			ID: strconv.Itoa(i),
			Metadata: map[string]string{
				"source":   fragment.Source,
				"category": string(fragment.Category),
			},
			Content:   fragment.Content,
			Embedding: vectors[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		c.logger.Warn("loading vector index failed, degrading to keyword mode", "error", err)
		return nil
	}
	return collection
}
