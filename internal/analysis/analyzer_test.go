package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/models"
)

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	analyzer := NewAnalyzer(DefaultLexicon())

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := analyzer.Analyze(models.ContentInput{Text: text})
		assert.ErrorIs(t, err, models.ErrInvalidInput, "input %q", text)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	analyzer := NewAnalyzer(DefaultLexicon())
	input := models.ContentInput{Text: "We just shipped an amazing update! #launch 🚀 Check it out."}

	first, err := analyzer.Analyze(input)
	require.NoError(t, err)
	second, err := analyzer.Analyze(input)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestAnalyzeTotalOverAwkwardInputs(t *testing.T) {
	analyzer := NewAnalyzer(DefaultLexicon())

	inputs := []string{
		"🔥🔥🔥",
		"#tags #only #here",
		"no sentence punctuation at all",
		"!!!???...",
		"[link](https://example.com) and **bold** markdown",
	}
	for _, text := range inputs {
		result, err := analyzer.Analyze(models.ContentInput{Text: text})
		require.NoError(t, err, "input %q", text)
		assert.GreaterOrEqual(t, result.Scores.Sentiment, 0.0)
		assert.LessOrEqual(t, result.Scores.Sentiment, 100.0)
		assert.GreaterOrEqual(t, result.Scores.Readability, 0.0)
		assert.LessOrEqual(t, result.Scores.Readability, 100.0)
		assert.NotEmpty(t, result.Recommendation.Strengths)
		assert.NotEmpty(t, result.Recommendation.Improvements)
	}
}

func TestAnalyzeCarriesVaderSignal(t *testing.T) {
	analyzer := NewAnalyzer(DefaultLexicon())

	result, err := analyzer.Analyze(models.ContentInput{Text: "I absolutely love this, it is wonderful!"})
	require.NoError(t, err)

	assert.Greater(t, result.Scores.VaderCompound, 0.0)
	assert.InDelta(t, result.Scores.VaderCompound, result.Scores.Confidence, 0.0001)
}

func TestMarkdownToTextStripsFormattingAndLinks(t *testing.T) {
	plain := MarkdownToText("**Big** news: [read more](https://example.com/post) at https://example.com")

	assert.NotContains(t, plain, "**")
	assert.NotContains(t, plain, "https://")
	assert.Contains(t, plain, "Big")
	assert.Contains(t, plain, "read more")
}
