package knowledge

import "context"

// Adapter collects normalized knowledge fragments from one source.
//
// Contract: Collect is best-effort. An adapter that cannot reach its backing
// data returns whatever it gathered (possibly nothing) together with the
// error; the corpus builder logs the error and moves on. An adapter must
// never panic and must never block past its backing store's timeouts.
type Adapter interface {
	// Name identifies the adapter in logs.
	Name() string

	// Collect returns the adapter's fragments.
	Collect(ctx context.Context) ([]Fragment, error)
}
