package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/postpulse/postpulse/internal/models"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractFeatures derives the raw lexical counts from text. It is total:
// any string, including the empty string, yields a valid FeatureSet.
func ExtractFeatures(text string) models.FeatureSet {
	features := models.FeatureSet{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
		Hashtags:  hashtagPattern.FindAllString(text, -1),
	}
	if features.Hashtags == nil {
		features.Hashtags = []string{}
	}
	features.HashtagCount = len(features.Hashtags)
	features.EmojiCount = countEmoji(text)
	return features
}

const (
	zwj               = 0x200D
	variationSelector = 0xFE0F
)

// countEmoji scans code points, not bytes, and folds ZWJ sequences, skin
// tone modifiers, variation selectors and regional-indicator pairs into a
// single emoji so one visible glyph counts once.
func countEmoji(text string) int {
	runes := []rune(text)
	count := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case isRegionalIndicator(r):
			// Flags are pairs of regional indicators.
			if i+1 < len(runes) && isRegionalIndicator(runes[i+1]) {
				i++
			}
			count++
		case isEmojiBase(r):
			count++
			for i+1 < len(runes) {
				next := runes[i+1]
				if isSkinToneModifier(next) || next == variationSelector {
					i++
					continue
				}
				if next == zwj && i+2 < len(runes) && isEmojiBase(runes[i+2]) {
					i += 2
					continue
				}
				break
			}
		}
	}
	return count
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isSkinToneModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

func isEmojiBase(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental pictographs
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // extended pictographs
		return true
	case r >= 0x2600 && r <= 0x26FF: // miscellaneous symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r == 0x2764 || r == 0x2B50 || r == 0x2B55:
		return true
	default:
		return false
	}
}
