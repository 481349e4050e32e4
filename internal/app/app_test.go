package app

import (
	"testing"

	"github.com/growthsuite/gschat/internal/config"
	"github.com/growthsuite/gschat/internal/log"
	"github.com/growthsuite/gschat/internal/retrieval"
)

func testConfig() *config.Config {
	return &config.Config{
		ContentMaxChars:   800,
		MaxDocumentsFull:  1000,
		MaxDocumentsLite:  50,
		HistoryWindowDays: 7,
		HistoryLimitFull:  50,
		HistoryLimitLite:  10,
	}
}

func TestCorpusSourceModeDispatch(t *testing.T) {
	source := provideCorpusSource(testConfig(), nil, nil, log.NewNop())

	// Without a database only the static documentation adapter produces
	// fragments, in both modes.
	full := source.Corpus(t.Context(), retrieval.ModeVector)
	lite := source.Corpus(t.Context(), retrieval.ModeKeyword)

	if len(full) == 0 || len(lite) == 0 {
		t.Fatalf("corpus sizes = (%d, %d), want both non-empty from static docs", len(full), len(lite))
	}
	for _, f := range append(full, lite...) {
		if f.Content == "" || f.Source == "" {
			t.Errorf("fragment with empty content or source: %+v", f)
		}
	}
}

func TestCorpusSourceRespectsLiteCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDocumentsLite = 3
	source := provideCorpusSource(cfg, nil, nil, log.NewNop())

	lite := source.Corpus(t.Context(), retrieval.ModeKeyword)
	if len(lite) > 3 {
		t.Errorf("lite corpus size = %d, exceeds cap 3", len(lite))
	}
}

func TestCloseRunsCleanupsOnce(t *testing.T) {
	calls := 0
	a := &App{cleanups: []func(){func() { calls++ }, func() { calls++ }}}

	a.Close()
	a.Close()

	if calls != 2 {
		t.Errorf("cleanup calls = %d, want 2", calls)
	}
}
