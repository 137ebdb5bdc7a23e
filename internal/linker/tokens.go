// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"strings"
	"unicode"
)

// stopwords are common English function words ignored when matching key
// points against spans. The map is never written after init.
var stopwords = toSet(strings.Fields(`
	a about above after again against all am an and any are as at
	be because been before being below between both but by
	can could did do does doing down during each few for from further
	had has have having he her here hers herself him himself his how
	i if in into is it its itself just me more most my myself
	no nor not now of off on once only or other our ours ourselves out over own
	same she should so some such than that the their theirs them themselves then
	there these they this those through to too under until up very
	was we were what when where which while who whom why will with would
	you your yours yourself yourselves also
`))

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenize lowercases s and splits it on every rune that is neither a
// letter nor a digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenSet returns the distinct tokens of s.
func tokenSet(s string) map[string]struct{} {
	return toSet(tokenize(s))
}

// queryTokens returns the distinct tokens of a key point's text. Stopwords
// are dropped unless keepStopwords is set or nothing else would remain.
func queryTokens(s string, keepStopwords bool) map[string]struct{} {
	all := tokenSet(s)
	if keepStopwords {
		return all
	}
	content := make(map[string]struct{}, len(all))
	for tok := range all {
		if _, stop := stopwords[tok]; !stop {
			content[tok] = struct{}{}
		}
	}
	if len(content) == 0 {
		return all
	}
	return content
}

// containment returns the fraction of query tokens present in doc, in
// [0,1]. An empty query scores 0.
func containment(query, doc map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	shared := 0
	for tok := range query {
		if _, ok := doc[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(query))
}
