package generate

import (
	"fmt"
	"strings"

	"github.com/huskyrag/ragcore/pkg/types"
)

// SystemInstruction is C5's fixed system prompt, per spec §4.5.
const SystemInstruction = "You answer questions about Northeastern University using ONLY the provided sources. " +
	"Cite sources by [index]. If the sources do not contain the answer, say so plainly. " +
	"Do not fabricate URLs, programs, or facts."

// maxPromptCharsDefault is used when config does not override it.
const maxPromptCharsDefault = 12000

type promptParams struct {
	NCtx        int
	ExcerptChar int
	MaxTokens   int
}

var promptTable = map[types.Mode]promptParams{
	types.UltraFast:     {NCtx: 3, ExcerptChar: 250, MaxTokens: 300},
	types.Fast:          {NCtx: 5, ExcerptChar: 350, MaxTokens: 300},
	types.Balanced:      {NCtx: 8, ExcerptChar: 500, MaxTokens: 500},
	types.Comprehensive: {NCtx: 12, ExcerptChar: 500, MaxTokens: 500},
}

func promptParamsFor(m types.Mode) promptParams {
	if p, ok := promptTable[m]; ok {
		return p
	}
	return promptTable[types.Fast]
}

// contextEntry is one candidate as it will appear in the assembled prompt.
type contextEntry struct {
	candidate types.Candidate
	excerpt   string
}

// assemblePrompt implements spec §4.5's prompt assembly: select the top
// N_ctx candidates (already ranked by C4), render each as
// "[i] title\nURL: url\nExcerpt: ...", cap total size at maxPromptChars by
// truncating the last candidate's excerpt and then dropping trailing
// candidates. It returns the rendered prompt plus the contextEntries that
// actually made it in, in prompt order - these back the envelope's source
// list.
func assemblePrompt(question string, ranked []types.Candidate, mode types.Mode, maxPromptChars int) (string, []contextEntry) {
	if maxPromptChars <= 0 {
		maxPromptChars = maxPromptCharsDefault
	}
	params := promptParamsFor(mode)

	n := params.NCtx
	if n > len(ranked) {
		n = len(ranked)
	}

	entries := make([]contextEntry, 0, n)
	for i := 0; i < n; i++ {
		c := ranked[i]
		entries = append(entries, contextEntry{candidate: c, excerpt: truncate(c.Content, params.ExcerptChar)})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)

	kept := 0
	for i, e := range entries {
		block := renderEntry(i+1, e)
		if b.Len()+len(block) <= maxPromptChars {
			b.WriteString(block)
			kept++
			continue
		}

		// Try truncating this entry's excerpt to fit the remaining budget.
		remaining := maxPromptChars - b.Len()
		fitted := fitEntry(i+1, e, remaining)
		if fitted != "" {
			b.WriteString(fitted)
			kept++
		}
		break
	}

	return b.String(), entries[:kept]
}

func renderEntry(index int, e contextEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s\n", index, e.candidate.Title)
	if e.candidate.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", e.candidate.URL)
	}
	fmt.Fprintf(&b, "Excerpt: %s\n\n", e.excerpt)
	return b.String()
}

// fitEntry truncates e's excerpt so its rendered block fits within budget
// chars, returning "" if even the header alone does not fit.
func fitEntry(index int, e contextEntry, budget int) string {
	header := fmt.Sprintf("[%d] %s\n", index, e.candidate.Title)
	if e.candidate.URL != "" {
		header += fmt.Sprintf("URL: %s\n", e.candidate.URL)
	}
	footer := "Excerpt: \n\n"
	overhead := len(header) + len(footer)
	if overhead >= budget {
		return ""
	}
	e.excerpt = truncate(e.excerpt, budget-overhead)
	return renderEntry(index, e)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
