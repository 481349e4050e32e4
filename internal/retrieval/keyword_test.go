package retrieval

import (
	"testing"

	"github.com/growthsuite/gschat/internal/knowledge"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"drops stopwords", "how to create a sales invoice", []string{"create", "sales", "invoice"}},
		{"splits on punctuation and lowers", "Customer, Supplier; ITEM!", []string{"customer", "supplier", "item"}},
		{"all stopwords", "how do i", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScoreKeywordCountsContainment(t *testing.T) {
	corpus := knowledge.Corpus{
		{Content: "Sales Invoice lets you bill customers", Source: "Docs", Category: knowledge.CategoryDocumentation},
		{Content: "Warehouse stock ledger entries", Source: "Docs2", Category: knowledge.CategoryDocumentation},
	}

	results := scoreKeyword(corpus, "create sales invoice", nil)
	if len(results) != 1 {
		t.Fatalf("result count = %d, want 1 (zero-score fragment dropped)", len(results))
	}
	if results[0].Fragment.Source != "Docs" {
		t.Errorf("top source = %q, want Docs", results[0].Fragment.Source)
	}
	// Two of three tokens match: "sales" and "invoice".
	if results[0].Score != 2 {
		t.Errorf("score = %f, want 2", results[0].Score)
	}
}

func TestScoreKeywordSubstringMatch(t *testing.T) {
	corpus := knowledge.Corpus{
		{Content: "Invoices are generated nightly", Source: "Docs", Category: knowledge.CategoryDocumentation},
	}

	results := scoreKeyword(corpus, "invoice", nil)
	if len(results) != 1 {
		t.Fatal("substring containment should match plural form")
	}
}

func TestScoreKeywordCategoryWeights(t *testing.T) {
	corpus := knowledge.Corpus{
		{Content: "invoice chat about totals", Source: "Chat", Category: knowledge.CategoryConversation},
		{Content: "invoice documentation page", Source: "Docs", Category: knowledge.CategoryDocumentation},
	}
	weights := map[string]float64{string(knowledge.CategoryConversation): 0.8}

	results := scoreKeyword(corpus, "invoice", weights)
	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2", len(results))
	}
	// Both match one token; the down-weighted conversation loses the tie.
	if results[0].Fragment.Source != "Docs" {
		t.Errorf("top source = %q, want Docs (weight should demote conversation)", results[0].Fragment.Source)
	}
	if results[1].Score != 0.8 {
		t.Errorf("conversation score = %f, want 0.8", results[1].Score)
	}
}

func TestScoreKeywordStableTies(t *testing.T) {
	corpus := knowledge.Corpus{
		{Content: "invoice alpha", Source: "A", Category: knowledge.CategoryDocumentation},
		{Content: "invoice beta", Source: "B", Category: knowledge.CategoryDocumentation},
		{Content: "invoice gamma", Source: "C", Category: knowledge.CategoryDocumentation},
	}

	results := scoreKeyword(corpus, "invoice", nil)
	for i, want := range []string{"A", "B", "C"} {
		if results[i].Fragment.Source != want {
			t.Errorf("tie position %d = %q, want %q (corpus order)", i, results[i].Fragment.Source, want)
		}
	}
}
