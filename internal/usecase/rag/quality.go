package rag

import (
	"math"
	"strings"
)

// AssessContextQuality is a cheap lexical gate deciding whether retrieved
// context is good enough to answer the query, or whether the web search
// fallback should kick in. Both texts are tokenized into lowercase word
// sets (each distinct word counted once); the context passes when the
// overlap reaches 30% of the query's distinct words, with a floor of one.
func AssessContextQuality(context, query string) bool {
	if len(strings.TrimSpace(context)) < 50 {
		return false
	}

	queryWords := wordSet(query)
	contextWords := wordSet(context)

	overlap := 0
	for word := range queryWords {
		if _, ok := contextWords[word]; ok {
			overlap++
		}
	}

	required := int(math.Ceil(0.3 * float64(len(queryWords))))
	if required < 1 {
		required = 1
	}
	return overlap >= required
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
