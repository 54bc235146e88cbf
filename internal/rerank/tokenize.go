package rerank

import "strings"

// stopwords is the fixed ~30-token English closed set used to decide which
// query tokens count as signal for title_match/content_match scoring.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"it": {}, "this": {}, "that": {}, "these": {}, "those": {}, "as": {},
	"do": {}, "does": {}, "did": {}, "what": {}, "which": {}, "who": {},
}

func isStopword(tok string) bool {
	_, ok := stopwords[strings.ToLower(tok)]
	return ok
}

// tokenize lowercases and splits on non-letter/digit boundaries.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// significantTokens returns s's tokens with stopwords removed.
func significantTokens(s string) []string {
	raw := tokenize(s)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if !isStopword(t) {
			out = append(out, t)
		}
	}
	return out
}
