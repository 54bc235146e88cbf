package rerank

import "strings"

const (
	titleMatchWeight       = 0.10
	contentMatchWeight     = 0.05
	exactPhraseMatchWeight = 0.05

	contentMatchWindow = 1000
	minPhraseTokens     = 3
)

// relevance implements spec §4.4's composite score:
//
//	relevance = similarity + 0.10*title_match + 0.05*content_match + 0.05*exact_phrase_match
func relevance(query, title, content string, similarity float64) float64 {
	queryTokens := significantTokens(query)

	score := similarity
	if titleMatch(queryTokens, title) {
		score += titleMatchWeight
	}
	if contentMatch(queryTokens, content) {
		score += contentMatchWeight
	}
	if exactPhraseMatch(query, content) {
		score += exactPhraseMatchWeight
	}
	return score
}

func titleMatch(queryTokens []string, title string) bool {
	titleSet := tokenSet(title)
	for _, tok := range queryTokens {
		if _, ok := titleSet[tok]; ok {
			return true
		}
	}
	return false
}

func contentMatch(queryTokens []string, content string) bool {
	window := content
	if len(window) > contentMatchWindow {
		window = window[:contentMatchWindow]
	}
	windowSet := tokenSet(window)
	for _, tok := range queryTokens {
		if _, ok := windowSet[tok]; ok {
			return true
		}
	}
	return false
}

func exactPhraseMatch(query, content string) bool {
	trimmed := strings.TrimSpace(query)
	if len(tokenize(trimmed)) < minPhraseTokens {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(trimmed))
}

func tokenSet(s string) map[string]struct{} {
	toks := tokenize(s)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
