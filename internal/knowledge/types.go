package knowledge

import "strings"

// Category identifies the adapter that produced a fragment.
type Category string

// Fragment categories, one per knowledge source adapter.
const (
	CategoryDocumentation Category = "documentation"
	CategorySchema        Category = "schema"
	CategoryCode          Category = "code"
	CategoryConfig        Category = "config"
	CategoryConversation  Category = "conversation"
)

// Fragment is the atomic unit of retrievable knowledge.
//
// Invariants: Content and Source are never empty (adapters drop fragments
// that would violate this, and NewFragment enforces it). Source is
// human-readable and used verbatim in prompts. Fragments are immutable once
// created and live exactly one cache generation.
type Fragment struct {
	Content  string
	Source   string
	Category Category
}

// Corpus is the ordered collection of fragments assembled for one cache
// generation. Order is significant: it encodes adapter priority and provides
// the stable tie-break for equal retrieval scores.
type Corpus []Fragment

// NewFragment creates a fragment with content truncated to maxChars.
// Returns false when content or source is empty after trimming, so callers
// can skip invalid fragments without special-casing.
func NewFragment(content, source string, category Category, maxChars int) (Fragment, bool) {
	content = strings.TrimSpace(content)
	source = strings.TrimSpace(source)
	if content == "" || source == "" {
		return Fragment{}, false
	}

	return Fragment{
		Content:  Truncate(content, maxChars),
		Source:   source,
		Category: category,
	}, true
}

// Truncate bounds s to maxChars runes, appending an ellipsis when content was
// dropped. maxChars <= 0 means no limit.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}
