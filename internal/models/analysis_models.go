package models

// FeatureSet holds the raw lexical counts derived from one piece of content.
// It is computed once per request and never mutated afterwards.
type FeatureSet struct {
	WordCount    int      `json:"word_count"`
	CharCount    int      `json:"char_count"`
	Hashtags     []string `json:"hashtags"`
	HashtagCount int      `json:"hashtag_count"`
	EmojiCount   int      `json:"emoji_count"`
}

// ScoreSet holds the normalized 0-100 scores synthesized from a FeatureSet.
// VaderCompound and Confidence are supplemental signals and never feed the
// label thresholds.
type ScoreSet struct {
	Sentiment     float64 `json:"sentiment"`
	Readability   float64 `json:"readability"`
	VaderCompound float64 `json:"vader_compound"`
	Confidence    float64 `json:"confidence"`
}

const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

const (
	ViralPotentialHigh   = "High"
	ViralPotentialMedium = "Medium"
	ViralPotentialLow    = "Low"
)

type Recommendation struct {
	SentimentLabel string   `json:"sentiment_label"`
	Feedback       string   `json:"feedback"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	ViralPotential string   `json:"viral_potential"`
}

// Analysis is the full pipeline output for one ContentInput.
type Analysis struct {
	Features       FeatureSet     `json:"features"`
	Scores         ScoreSet       `json:"scores"`
	Recommendation Recommendation `json:"recommendation"`
}
