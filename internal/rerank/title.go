package rerank

import (
	"regexp"
	"strings"
)

// fallbackTitle is used when the title cascade exhausts every other source.
const fallbackTitle = "Northeastern University Resource"

// junkTitles are metadata.title values treated as absent.
var junkTitles = map[string]struct{}{
	"":                  {},
	"untitled document": {},
	"untitled":           {},
}

var (
	markdownH1Pattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	htmlTitlePattern  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	sentencePattern   = regexp.MustCompile(`[.!?]`)
)

// synthesizeTitle implements spec §4.4's title cascade: metadata.title,
// then a Markdown H1, then an HTML <title>, then a short first sentence,
// then the fixed fallback. It is idempotent - a candidate whose title is
// already a non-junk, non-empty value from an earlier pass is unaffected
// because this function only ever consults metadata and content, never a
// previously-synthesized Candidate.Title field.
func synthesizeTitle(metadataTitle, content string) string {
	if t := strings.TrimSpace(metadataTitle); t != "" {
		if _, junk := junkTitles[strings.ToLower(t)]; !junk {
			return t
		}
	}

	if m := markdownH1Pattern.FindStringSubmatch(content); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}

	if m := htmlTitlePattern.FindStringSubmatch(content); m != nil {
		if t := strings.TrimSpace(stripTags(m[1])); t != "" {
			return t
		}
	}

	if t := firstShortSentence(content, 80); t != "" {
		return t
	}

	return fallbackTitle
}

func firstShortSentence(content string, maxLen int) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	loc := sentencePattern.FindStringIndex(trimmed)
	var sentence string
	if loc != nil {
		sentence = trimmed[:loc[0]]
	} else {
		sentence = trimmed
	}
	sentence = strings.TrimSpace(sentence)
	if sentence == "" || len(sentence) > maxLen {
		return ""
	}
	return sentence
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
