package analysis

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/postpulse/postpulse/internal/models"
)

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// SynthesizeScores converts raw features into normalized 0-100 scores.
// Both scores are pure functions of the text and the lexicon; identical
// input always yields identical output.
func SynthesizeScores(text string, features models.FeatureSet, lexicon Lexicon) models.ScoreSet {
	return models.ScoreSet{
		Sentiment:   sentimentScore(text, lexicon),
		Readability: readabilityScore(text, features),
	}
}

// sentimentScore is a neutral 50 baseline shifted 10 points per lexicon
// match, clamped so the range stays bounded regardless of text length.
func sentimentScore(text string, lexicon Lexicon) float64 {
	positive, negative := 0, 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if word == "" {
			continue
		}
		if lexicon.IsPositive(word) {
			positive++
		} else if lexicon.IsNegative(word) {
			negative++
		}
	}
	return clampScore(50 + 10*float64(positive-negative))
}

// readabilityScore approximates Flesch Reading Ease from average sentence
// length and vowel-group syllable counts. Texts with no words or no
// sentences get the mid-range default instead of a division by zero.
func readabilityScore(text string, features models.FeatureSet) float64 {
	if features.WordCount == 0 {
		return 50
	}
	sentences := countSentences(text)
	if sentences == 0 {
		return 50
	}

	totalSyllables := 0
	words := strings.Fields(text)
	for _, word := range words {
		totalSyllables += countSyllables(word)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(totalSyllables) / float64(len(words))

	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return clampScore(score)
}

func countSentences(text string) int {
	count := 0
	for _, segment := range sentenceSplitter.Split(text, -1) {
		if len(strings.Fields(segment)) > 0 {
			count++
		}
	}
	return count
}

// countSyllables approximates syllables as runs of vowels. Every word
// counts at least one.
func countSyllables(word string) int {
	syllables := 0
	inVowelGroup := false
	for _, r := range strings.ToLower(word) {
		if isVowel(r) {
			if !inVowelGroup {
				syllables++
				inVowelGroup = true
			}
		} else {
			inVowelGroup = false
		}
	}
	if syllables == 0 {
		syllables = 1
	}
	return syllables
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
