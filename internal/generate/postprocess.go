package generate

import "strings"

// minAnswerLen below which the answer is treated as non-answering, per
// spec §4.5.
const minAnswerLen = 20

// refusalConfidence is assigned when the answer is too short or matches a
// known "no information" template.
const refusalConfidence = 0.2

var refusalPreambles = []string{
	"i'm sorry, but ",
	"i am sorry, but ",
	"i apologize, but ",
	"unfortunately, ",
}

var noInformationTemplates = []string{
	"the provided sources do not contain",
	"the sources do not contain",
	"i don't have enough information",
	"i do not have enough information",
	"no information is available",
}

// stripRefusalPreamble removes a recognized leading refusal phrase, so the
// remaining sentence (often still useful) is what is surfaced to the user.
func stripRefusalPreamble(answer string) string {
	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(trimmed)
	for _, p := range refusalPreambles {
		if strings.HasPrefix(lower, p) {
			rest := trimmed[len(p):]
			if rest == "" {
				return trimmed
			}
			return strings.ToUpper(rest[:1]) + rest[1:]
		}
	}
	return trimmed
}

// isNoInformationAnswer reports whether answer matches one of the fixed
// "no information" templates (case-insensitive substring match).
func isNoInformationAnswer(answer string) bool {
	lower := strings.ToLower(answer)
	for _, t := range noInformationTemplates {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// confidence implements spec §4.5's post-processing rule: a too-short or
// "no information" answer gets a fixed low confidence; otherwise confidence
// is the mean of the top-3 (or fewer) ranked candidates' relevance, capped
// at 1.0.
func confidence(answer string, topRelevance []float64) float64 {
	if len(answer) < minAnswerLen || isNoInformationAnswer(answer) {
		return refusalConfidence
	}

	n := len(topRelevance)
	if n > 3 {
		n = 3
	}
	if n == 0 {
		return refusalConfidence
	}

	sum := 0.0
	for _, r := range topRelevance[:n] {
		sum += r
	}
	mean := sum / float64(n)
	if mean > 1.0 {
		return 1.0
	}
	return mean
}
