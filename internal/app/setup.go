package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthsuite/gschat/db"
	"github.com/growthsuite/gschat/internal/config"
	"github.com/growthsuite/gschat/internal/embed"
	"github.com/growthsuite/gschat/internal/history"
	"github.com/growthsuite/gschat/internal/knowledge"
	"github.com/growthsuite/gschat/internal/log"
	"github.com/growthsuite/gschat/internal/registry"
	"github.com/growthsuite/gschat/internal/resource"
	"github.com/growthsuite/gschat/internal/retrieval"
)

// Setup wires the application. Retrieval is best-effort enrichment, so a
// missing capability (database down, no embedding credentials) logs a
// warning and narrows the corpus instead of failing startup. Only an
// invalid configuration is a hard error.
//
// override forces a retrieval mode for every request, bypassing both the
// configured preference and the resource probe. Empty means no override.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger, override retrieval.Mode) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	a.DBPool = provideDBPool(ctx, cfg, logger)
	if a.DBPool != nil {
		a.cleanups = append(a.cleanups, a.DBPool.Close)
		a.History = history.New(a.DBPool, logger)
	}

	a.Genkit, a.Embedder = provideEmbedder(ctx, cfg, logger)

	var embProvider retrieval.EmbeddingProvider
	if a.Embedder != nil {
		embProvider = embed.New(a.Embedder,
			time.Duration(cfg.EmbedTimeoutSeconds)*time.Second,
			cfg.EmbedRatePerSecond)
	}

	source := provideCorpusSource(cfg, a.DBPool, a.History, logger)
	selector := retrieval.NewSelector(retrieval.Mode(cfg.RetrievalMode), resource.NewSystemProbe(logger), logger)
	cache := retrieval.NewCache(
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		selector, source, embProvider, logger)
	engine := retrieval.NewEngine(cfg.CategoryWeights, logger)
	a.Retrieval = retrieval.NewService(cache, engine, override, logger)

	return a, nil
}

// provideDBPool migrates and connects to PostgreSQL. Returns nil when the
// database is unreachable; schema and conversation knowledge are then
// simply absent from the corpus.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) *pgxpool.Pool {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		logger.Warn("database unavailable, schema and history adapters disabled", "error", err)
		return nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		logger.Warn("invalid database configuration, schema and history adapters disabled", "error", err)
		return nil
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Warn("creating connection pool failed", "error", err)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Warn("database unreachable, schema and history adapters disabled", "error", err)
		return nil
	}
	return pool
}

// provideEmbedder initializes Genkit with the OpenAI plugin and looks up
// the configured embedding model. Embeddings always go through OpenAI even
// when another provider generates responses, so one embedding space covers
// the whole corpus. Returns nils when no credentials are present, which
// limits retrieval to keyword mode.
func provideEmbedder(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, ai.Embedder) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		logger.Warn("OPENAI_API_KEY not set, vector retrieval disabled")
		return nil, nil
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
	if g == nil {
		logger.Warn("initializing genkit failed, vector retrieval disabled")
		return nil, nil
	}

	embedder := genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
	if embedder == nil {
		logger.Warn("embedder not found, vector retrieval disabled", "model", cfg.EmbedderModel)
		return g, nil
	}
	logger.Info("embedding provider ready", "provider", "openai", "model", cfg.EmbedderModel)
	return g, embedder
}

// corpusSource builds the mode-appropriate corpus: the full adapter set
// with the full cap in vector mode, the essential set with the lite cap in
// keyword mode.
type corpusSource struct {
	full    *knowledge.Builder
	lite    *knowledge.Builder
	maxFull int
	maxLite int
}

// Corpus implements retrieval.CorpusSource.
func (s *corpusSource) Corpus(ctx context.Context, mode retrieval.Mode) knowledge.Corpus {
	if mode == retrieval.ModeVector {
		return s.full.Build(ctx, s.maxFull)
	}
	return s.lite.Build(ctx, s.maxLite)
}

// provideCorpusSource wires the knowledge adapters in priority order:
// documentation, schema, conversation, code, config. Code and config
// adapters only exist in the full set.
func provideCorpusSource(cfg *config.Config, pool *pgxpool.Pool, store *history.Store, logger log.Logger) *corpusSource {
	var entityRegistry knowledge.EntityRegistry
	var convStore knowledge.ConversationStore
	if pool != nil {
		entityRegistry = registry.NewPostgres(pool, logger)
	}
	if store != nil {
		convStore = store
	}

	maxChars := cfg.ContentMaxChars
	var fullSchema, liteSchema knowledge.Adapter
	if entityRegistry != nil {
		fullSchema = knowledge.NewSchemaAdapter(entityRegistry, false, maxChars, logger)
		liteSchema = knowledge.NewSchemaAdapter(entityRegistry, true, maxChars, logger)
	}

	full := knowledge.NewBuilder(logger,
		knowledge.NewDocumentationAdapter(maxChars),
		fullSchema,
		knowledge.NewConversationAdapter(convStore, cfg.HistoryWindowDays, cfg.HistoryLimitFull, false, maxChars, logger),
		knowledge.NewCodeAdapter(cfg.CodeDirs, maxChars, logger),
		knowledge.NewAppConfigAdapter(cfg.AppPath, maxChars, logger),
	)
	lite := knowledge.NewBuilder(logger,
		knowledge.NewDocumentationAdapter(maxChars),
		liteSchema,
		knowledge.NewConversationAdapter(convStore, cfg.HistoryWindowDays, cfg.HistoryLimitLite, true, maxChars, logger),
	)

	return &corpusSource{
		full:    full,
		lite:    lite,
		maxFull: cfg.MaxDocumentsFull,
		maxLite: cfg.MaxDocumentsLite,
	}
}
