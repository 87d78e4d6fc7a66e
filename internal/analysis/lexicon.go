package analysis

import "strings"

// Lexicon is the curated sentiment word list the score synthesizer matches
// against. It is passed in rather than read from package state so callers
// can swap word sets without touching globals.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var defaultPositiveWords = []string{
	"amazing", "awesome", "beautiful", "best", "brilliant", "excellent",
	"excited", "exciting", "fantastic", "good", "great", "happy",
	"incredible", "inspiring", "love", "perfect", "proud", "stunning",
	"win", "wonderful",
}

var defaultNegativeWords = []string{
	"angry", "annoying", "awful", "bad", "boring", "disappointing",
	"fail", "hate", "horrible", "lose", "mediocre", "poor", "sad",
	"terrible", "ugly", "useless", "worst", "wrong",
}

// DefaultLexicon returns the stock word lists used in production.
func DefaultLexicon() Lexicon {
	return NewLexicon(defaultPositiveWords, defaultNegativeWords)
}

func NewLexicon(positive, negative []string) Lexicon {
	lex := Lexicon{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		lex.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range negative {
		lex.negative[strings.ToLower(w)] = struct{}{}
	}
	return lex
}

func (l Lexicon) IsPositive(word string) bool {
	_, ok := l.positive[word]
	return ok
}

func (l Lexicon) IsNegative(word string) bool {
	_, ok := l.negative[word]
	return ok
}
