// Package app assembles the retrieval subsystem: configuration, database,
// embedding provider, knowledge adapters, and the retrieval service.
package app

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthsuite/gschat/internal/config"
	"github.com/growthsuite/gschat/internal/history"
	"github.com/growthsuite/gschat/internal/log"
	"github.com/growthsuite/gschat/internal/retrieval"
)

// App is the application container. Fields are nil when the corresponding
// capability is unavailable; the retrieval service always works, degrading
// to keyword search over whatever adapters could be wired.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	History   *history.Store
	Retrieval *retrieval.Service

	cleanups []func()
}

// Close releases all resources in reverse initialization order.
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

// Retrieve exposes the retrieval facade for convenience.
func (a *App) Retrieve(ctx context.Context, query string, topK int) []retrieval.Document {
	return a.Retrieval.Retrieve(ctx, query, topK)
}
