package analysis

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/postpulse/postpulse/internal/models"
)

// Analyzer runs the full scoring pipeline: features, scores and the
// recommendation layer. It carries no request state and is safe to share
// across concurrent requests.
type Analyzer struct {
	lexicon Lexicon
	vader   *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer(lexicon Lexicon) *Analyzer {
	return &Analyzer{
		lexicon: lexicon,
		vader:   govader.NewSentimentIntensityAnalyzer(),
	}
}

// Analyze is the single linear pass: input -> features -> scores ->
// recommendation. Returns models.ErrInvalidInput when the text is empty
// after trimming; no stage runs in that case.
func (a *Analyzer) Analyze(input models.ContentInput) (models.Analysis, error) {
	if strings.TrimSpace(input.Text) == "" {
		return models.Analysis{}, models.ErrInvalidInput
	}
	input = input.Normalize()

	features := ExtractFeatures(input.Text)
	scores := SynthesizeScores(input.Text, features, a.lexicon)

	// Supplemental VADER signal over the markdown-stripped text. It rides
	// along in the response but never feeds the labels.
	compound := a.vader.PolarityScores(MarkdownToText(input.Text)).Compound
	scores.VaderCompound = compound
	scores.Confidence = math.Abs(compound)

	return models.Analysis{
		Features:       features,
		Scores:         scores,
		Recommendation: Compose(features, scores),
	}, nil
}
