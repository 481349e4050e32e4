package retrieval

import (
	"sort"
	"strings"
	"unicode"

	"github.com/growthsuite/gschat/internal/knowledge"
)

// stopwords are query tokens too common to carry relevance signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "for": {},
	"and": {}, "or": {}, "with": {}, "do": {}, "does": {}, "can": {},
	"how": {}, "what": {}, "i": {}, "my": {}, "me": {}, "it": {},
}

// tokenize lower-cases the query and splits it on non-alphanumeric runes,
// dropping stopwords.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; !stop {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// scoreKeyword ranks the corpus by containment count: each query token
// found anywhere in a fragment's lower-cased content scores one point,
// substring matches included. The sum is scaled by the fragment category's
// weight and zero-score fragments are dropped. Ties keep corpus order.
func scoreKeyword(corpus knowledge.Corpus, query string, weights map[string]float64) []Result {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var results []Result
	for _, fragment := range corpus {
		content := strings.ToLower(fragment.Content)
		matched := 0
		for _, token := range tokens {
			if strings.Contains(content, token) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		score := float64(matched)
		if w, ok := weights[string(fragment.Category)]; ok {
			score *= w
		}
		if score <= 0 {
			continue
		}
		results = append(results, Result{Fragment: fragment, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
