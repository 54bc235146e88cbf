package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripRefusalPreamble_RemovesKnownPrefix(t *testing.T) {
	got := stripRefusalPreamble("I'm sorry, but the deadline is May 1st.")
	assert.Equal(t, "The deadline is May 1st.", got)
}

func TestStripRefusalPreamble_LeavesOtherTextUnchanged(t *testing.T) {
	got := stripRefusalPreamble("The deadline is May 1st.")
	assert.Equal(t, "The deadline is May 1st.", got)
}

func TestIsNoInformationAnswer(t *testing.T) {
	assert.True(t, isNoInformationAnswer("The sources do not contain this information."))
	assert.False(t, isNoInformationAnswer("The deadline is May 1st."))
}

func TestConfidence_ShortAnswerGetsFixedLowConfidence(t *testing.T) {
	got := confidence("Too short", []float64{0.9, 0.9, 0.9})
	assert.Equal(t, refusalConfidence, got)
}

func TestConfidence_NoInformationTemplateGetsFixedLowConfidence(t *testing.T) {
	got := confidence("The sources do not contain enough detail to answer this specific question.", []float64{0.9, 0.9, 0.9})
	assert.Equal(t, refusalConfidence, got)
}

func TestConfidence_MeanOfTopThreeRelevance(t *testing.T) {
	got := confidence("The application deadline for graduate admissions is May 1st each year.", []float64{0.9, 0.6, 0.3, 0.1})
	assert.InDelta(t, 0.6, got, 1e-9)
}

func TestConfidence_CappedAtOne(t *testing.T) {
	got := confidence("The application deadline for graduate admissions is May 1st each year.", []float64{1.4, 1.3, 1.2})
	assert.Equal(t, 1.0, got)
}

func TestConfidence_NoRelevanceScoresFallsBackToRefusal(t *testing.T) {
	got := confidence("The application deadline for graduate admissions is May 1st each year.", nil)
	assert.Equal(t, refusalConfidence, got)
}
