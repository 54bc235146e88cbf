package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeTitle_MetadataTitleWins(t *testing.T) {
	got := synthesizeTitle("Graduate Admissions", "# Something Else\nbody")
	assert.Equal(t, "Graduate Admissions", got)
}

func TestSynthesizeTitle_JunkMetadataFallsThroughToMarkdownH1(t *testing.T) {
	got := synthesizeTitle("Untitled Document", "# Graduate Admissions\nMore text follows here.")
	assert.Equal(t, "Graduate Admissions", got)
}

func TestSynthesizeTitle_HTMLTitleExtract(t *testing.T) {
	got := synthesizeTitle("", "<html><head><title>Housing Services</title></head><body>x</body></html>")
	assert.Equal(t, "Housing Services", got)
}

func TestSynthesizeTitle_FirstShortSentence(t *testing.T) {
	got := synthesizeTitle("", "Financial aid is available to all students. More detail follows in later paragraphs.")
	assert.Equal(t, "Financial aid is available to all students", got)
}

func TestSynthesizeTitle_FallbackLiteral(t *testing.T) {
	longSentence := ""
	for i := 0; i < 30; i++ {
		longSentence += "word "
	}
	got := synthesizeTitle("", longSentence+".")
	assert.Equal(t, fallbackTitle, got)
}

func TestSynthesizeTitle_EmptyContentFallsBack(t *testing.T) {
	got := synthesizeTitle("", "")
	assert.Equal(t, fallbackTitle, got)
}

func TestSynthesizeTitle_Idempotent(t *testing.T) {
	content := "# Graduate Admissions\nbody"
	first := synthesizeTitle("Untitled Document", content)
	second := synthesizeTitle(first, content)
	assert.Equal(t, first, second)
}
