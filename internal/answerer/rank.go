package answerer

import (
	"sort"
	"strings"
	"unicode"
)

// rankDocs orders documents by lexical overlap with the question and keeps
// the top k. The sort is stable so corpus order breaks ties, keeping the
// output deterministic.
func rankDocs(question string, docs []string, k int) []string {
	terms := tokenize(question)

	type scored struct {
		doc   string
		score int
	}
	ranked := make([]scored, len(docs))
	for i, d := range docs {
		ranked[i] = scored{doc: d, score: overlap(terms, tokenize(d))}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, k)
	for i := range out {
		out[i] = ranked[i].doc
	}
	return out
}

func tokenize(s string) map[string]struct{} {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
