package analysis

import (
	"fmt"

	"github.com/postpulse/postpulse/internal/models"
)

const maxSuggestions = 5

// Fixed fillers so consumers never see an empty list.
const (
	defaultStrength    = "Clear, direct message that gets the point across"
	defaultImprovement = "Try a call to action asking your audience a question"
)

// Compose maps scores and feature thresholds onto the qualitative output
// layer: labels, feedback text and suggestion lists.
func Compose(features models.FeatureSet, scores models.ScoreSet) models.Recommendation {
	rec := models.Recommendation{
		SentimentLabel: sentimentLabel(scores.Sentiment),
		ViralPotential: viralPotential(scores),
		Strengths:      collectStrengths(features, scores),
		Improvements:   collectImprovements(features, scores),
	}
	rec.Feedback = fmt.Sprintf(
		"Your content scores %.0f/100 for sentiment and %.0f/100 for readability across %d words, %d hashtags and %d emoji.",
		scores.Sentiment, scores.Readability,
		features.WordCount, features.HashtagCount, features.EmojiCount)
	return rec
}

// Band boundaries are inclusive on the lower bound; consuming UIs color-code
// by these exact labels.
func sentimentLabel(sentiment float64) string {
	switch {
	case sentiment >= 70:
		return models.SentimentPositive
	case sentiment >= 40:
		return models.SentimentNeutral
	default:
		return models.SentimentNegative
	}
}

func viralPotential(scores models.ScoreSet) string {
	mean := (scores.Sentiment + scores.Readability) / 2
	switch {
	case mean >= 75:
		return models.ViralPotentialHigh
	case mean >= 50:
		return models.ViralPotentialMedium
	default:
		return models.ViralPotentialLow
	}
}

// Rules run in a fixed priority order so the first-triggered rules come
// first in the truncated list.
func collectStrengths(f models.FeatureSet, s models.ScoreSet) []string {
	var strengths []string
	if s.Sentiment >= 70 {
		strengths = append(strengths, "Upbeat, positive tone that audiences respond well to")
	}
	if f.HashtagCount >= 1 && f.HashtagCount <= 10 {
		strengths = append(strengths, fmt.Sprintf("Solid hashtag usage (%d) without looking spammy", f.HashtagCount))
	}
	if s.Readability >= 60 {
		strengths = append(strengths, "Easy to read at a glance, which keeps scrollers engaged")
	}
	if f.EmojiCount >= 1 && f.EmojiCount <= 5 {
		strengths = append(strengths, "Emoji add personality without overwhelming the text")
	}
	if f.WordCount >= 20 && f.WordCount <= 150 {
		strengths = append(strengths, "Length sits in the sweet spot for feed posts")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, defaultStrength)
	}
	return truncate(strengths)
}

func collectImprovements(f models.FeatureSet, s models.ScoreSet) []string {
	var improvements []string
	if f.HashtagCount < 1 {
		improvements = append(improvements, "Add 1-10 relevant hashtags to improve discoverability")
	} else if f.HashtagCount > 10 {
		improvements = append(improvements, fmt.Sprintf("Cut back from %d hashtags; more than 10 reads as spam", f.HashtagCount))
	}
	if s.Sentiment < 40 {
		improvements = append(improvements, "Lift the tone with more positive language")
	}
	if s.Readability < 50 {
		improvements = append(improvements, "Shorten your sentences and use simpler words")
	}
	if f.EmojiCount == 0 {
		improvements = append(improvements, "A well-placed emoji or two can boost engagement")
	}
	if f.WordCount < 10 {
		improvements = append(improvements, "Give readers a little more context; very short posts underperform")
	} else if f.WordCount > 200 {
		improvements = append(improvements, "Trim the copy; long captions lose readers before the point lands")
	}
	if len(improvements) == 0 {
		improvements = append(improvements, defaultImprovement)
	}
	return truncate(improvements)
}

func truncate(list []string) []string {
	if len(list) > maxSuggestions {
		return list[:maxSuggestions]
	}
	return list
}
