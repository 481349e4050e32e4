package config

import "fmt"

// Validate checks the configuration for invalid values.
// Called immediately after Load (fail-fast). Errors wrap the package
// sentinel errors so callers can use errors.Is.
func (c *Config) Validate() error {
	switch c.RetrievalMode {
	case RetrievalModeAuto, RetrievalModeVector, RetrievalModeKeyword:
	default:
		return fmt.Errorf("%w: %q (must be auto, vector, or keyword)",
			ErrInvalidRetrievalMode, c.RetrievalMode)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model must not be empty", ErrInvalidEmbedderModel)
	}

	if c.MaxDocumentsFull < 1 || c.MaxDocumentsFull > 100000 {
		return fmt.Errorf("%w: max_documents_full %d (must be 1-100000)",
			ErrInvalidMaxDocuments, c.MaxDocumentsFull)
	}
	if c.MaxDocumentsLite < 1 || c.MaxDocumentsLite > c.MaxDocumentsFull {
		return fmt.Errorf("%w: max_documents_lite %d (must be 1-%d)",
			ErrInvalidMaxDocuments, c.MaxDocumentsLite, c.MaxDocumentsFull)
	}

	if c.ContentMaxChars < 100 || c.ContentMaxChars > 10000 {
		return fmt.Errorf("%w: content_max_chars %d (must be 100-10000)",
			ErrInvalidContentCap, c.ContentMaxChars)
	}

	if c.CacheTTLSeconds < 1 {
		return fmt.Errorf("%w: cache_ttl_seconds %d (must be positive)",
			ErrInvalidCacheTTL, c.CacheTTLSeconds)
	}

	if c.HistoryWindowDays < 1 || c.HistoryWindowDays > 365 {
		return fmt.Errorf("%w: history_window_days %d (must be 1-365)",
			ErrInvalidHistoryWindow, c.HistoryWindowDays)
	}

	for category, weight := range c.CategoryWeights {
		if weight < 0 {
			return fmt.Errorf("%w: category %q has weight %f",
				ErrInvalidCategoryWeight, category, weight)
		}
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: postgres_host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: postgres_port %d (must be 1-65535)",
			ErrInvalidPostgresPort, c.PostgresPort)
	}

	return nil
}
