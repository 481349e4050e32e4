package knowledge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/growthsuite/gschat/internal/log"
)

// stubAdapter is a configurable Adapter for builder tests.
type stubAdapter struct {
	name      string
	fragments []Fragment
	err       error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Collect(context.Context) ([]Fragment, error) {
	return s.fragments, s.err
}

// makeFragments produces n fragments tagged with the given category.
func makeFragments(category Category, n int) []Fragment {
	out := make([]Fragment, n)
	for i := range out {
		out[i] = Fragment{
			Content:  fmt.Sprintf("%s content %d", category, i),
			Source:   fmt.Sprintf("%s source %d", category, i),
			Category: category,
		}
	}
	return out
}

func TestBuildConcatenatesInPriorityOrder(t *testing.T) {
	builder := NewBuilder(log.NewNop(),
		&stubAdapter{name: "documentation", fragments: makeFragments(CategoryDocumentation, 2)},
		&stubAdapter{name: "schema", fragments: makeFragments(CategorySchema, 2)},
		&stubAdapter{name: "conversation", fragments: makeFragments(CategoryConversation, 2)},
	)

	corpus := builder.Build(t.Context(), 0)

	wantOrder := []Category{
		CategoryDocumentation, CategoryDocumentation,
		CategorySchema, CategorySchema,
		CategoryConversation, CategoryConversation,
	}
	if len(corpus) != len(wantOrder) {
		t.Fatalf("corpus size = %d, want %d", len(corpus), len(wantOrder))
	}
	for i, want := range wantOrder {
		if corpus[i].Category != want {
			t.Errorf("corpus[%d].Category = %s, want %s", i, corpus[i].Category, want)
		}
	}
}

func TestBuildTruncatesLowestPriorityFirst(t *testing.T) {
	// P6: documentation and schema must survive truncation at the expense of
	// conversation history.
	builder := NewBuilder(log.NewNop(),
		&stubAdapter{name: "documentation", fragments: makeFragments(CategoryDocumentation, 3)},
		&stubAdapter{name: "schema", fragments: makeFragments(CategorySchema, 3)},
		&stubAdapter{name: "conversation", fragments: makeFragments(CategoryConversation, 10)},
	)

	corpus := builder.Build(t.Context(), 8)

	if len(corpus) != 8 {
		t.Fatalf("corpus size = %d, want exactly 8", len(corpus))
	}
	var docs, schemas, convs int
	for _, f := range corpus {
		switch f.Category {
		case CategoryDocumentation:
			docs++
		case CategorySchema:
			schemas++
		case CategoryConversation:
			convs++
		}
	}
	if docs != 3 || schemas != 3 {
		t.Errorf("truncation dropped high-priority fragments: docs=%d schemas=%d", docs, schemas)
	}
	if convs != 2 {
		t.Errorf("conversation fragments after truncation = %d, want 2", convs)
	}
}

func TestBuildToleratesFailingAdapter(t *testing.T) {
	builder := NewBuilder(log.NewNop(),
		&stubAdapter{name: "documentation", fragments: makeFragments(CategoryDocumentation, 2)},
		&stubAdapter{name: "schema", err: errors.New("registry unreachable")},
		&stubAdapter{name: "conversation", fragments: makeFragments(CategoryConversation, 1)},
	)

	corpus := builder.Build(t.Context(), 0)

	if len(corpus) != 3 {
		t.Fatalf("corpus size = %d, want 3 (failing adapter contributes nothing)", len(corpus))
	}
}

func TestBuildPartialResultFromFailingAdapter(t *testing.T) {
	// An adapter may return gathered fragments alongside its error.
	builder := NewBuilder(log.NewNop(),
		&stubAdapter{
			name:      "schema",
			fragments: makeFragments(CategorySchema, 2),
			err:       errors.New("cut off mid-scan"),
		},
	)

	corpus := builder.Build(t.Context(), 0)
	if len(corpus) != 2 {
		t.Fatalf("corpus size = %d, want partial result of 2", len(corpus))
	}
}

func TestBuildAllAdaptersFail(t *testing.T) {
	builder := NewBuilder(log.NewNop(),
		&stubAdapter{name: "documentation", err: errors.New("boom")},
		&stubAdapter{name: "conversation", err: errors.New("db down")},
	)

	corpus := builder.Build(t.Context(), 50)
	if len(corpus) != 0 {
		t.Fatalf("corpus size = %d, want 0", len(corpus))
	}
}

func TestNewBuilderSkipsNilAdapters(t *testing.T) {
	builder := NewBuilder(log.NewNop(),
		&stubAdapter{name: "documentation", fragments: makeFragments(CategoryDocumentation, 1)},
		nil,
		&stubAdapter{name: "config", fragments: makeFragments(CategoryConfig, 1)},
	)

	corpus := builder.Build(t.Context(), 0)
	if len(corpus) != 2 {
		t.Fatalf("corpus size = %d, want 2", len(corpus))
	}
}
