package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/models"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (s *stubCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.calls++
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const threeVariants = `[{"text":"a","rationale":"b"},{"text":"c","rationale":"d"},{"text":"e","rationale":"f"}]`

func TestImproveParsesValidResponse(t *testing.T) {
	stub := &stubCompleter{response: threeVariants}
	gen := NewGenerator(stub)

	result, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original caption",
		Tone:         models.ToneCasual,
		DesiredCount: 3,
	})

	require.NoError(t, err)
	require.Len(t, result.Variants, 3)
	assert.Equal(t, "a", result.Variants[0].Text)
	assert.Equal(t, "f", result.Variants[2].Rationale)
}

func TestImproveStripsCodeFences(t *testing.T) {
	stub := &stubCompleter{response: "```json\n" + threeVariants + "\n```"}
	gen := NewGenerator(stub)

	result, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original",
		Tone:         models.ToneProfessional,
		DesiredCount: 3,
	})

	require.NoError(t, err)
	assert.Len(t, result.Variants, 3)
}

func TestImproveRejectsMissingTextField(t *testing.T) {
	stub := &stubCompleter{response: "```json\n[{\"bad\":1}]\n```"}
	gen := NewGenerator(stub)

	_, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original",
		Tone:         models.ToneProfessional,
		DesiredCount: 1,
	})

	var malformed *models.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.False(t, models.IsRetryable(err))
}

func TestImproveRejectsWrongCount(t *testing.T) {
	stub := &stubCompleter{response: threeVariants}
	gen := NewGenerator(stub)

	_, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original",
		Tone:         models.ToneProfessional,
		DesiredCount: 5,
	})

	var malformed *models.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "expected 5")
}

func TestImproveRejectsNonJSON(t *testing.T) {
	stub := &stubCompleter{response: "Sure! Here are some ideas for you."}
	gen := NewGenerator(stub)

	_, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original",
		Tone:         models.ToneProfessional,
		DesiredCount: 3,
	})

	var malformed *models.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestImproveWrapsProviderFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection reset")}
	gen := NewGenerator(stub)

	_, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original",
		Tone:         models.ToneProfessional,
		DesiredCount: 3,
	})

	var external *models.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.True(t, models.IsRetryable(err))

	// Retrying after a provider failure replays the identical prompt.
	firstPrompt := stub.lastUser
	stub.err = nil
	stub.response = threeVariants
	result, err := gen.Improve(context.Background(), models.VariantRequest{
		Text:         "original",
		Tone:         models.ToneProfessional,
		DesiredCount: 3,
	})
	require.NoError(t, err)
	assert.Len(t, result.Variants, 3)
	assert.Equal(t, firstPrompt, stub.lastUser)
}

func TestImproveValidatesRequest(t *testing.T) {
	gen := NewGenerator(&stubCompleter{response: threeVariants})

	_, err := gen.Improve(context.Background(), models.VariantRequest{Text: " ", DesiredCount: 3})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = gen.Improve(context.Background(), models.VariantRequest{Text: "ok", DesiredCount: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = gen.Improve(context.Background(), models.VariantRequest{Text: "ok", DesiredCount: 11})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestPlanRequiresNiche(t *testing.T) {
	stub := &stubCompleter{response: threeVariants}
	gen := NewGenerator(stub)

	_, err := gen.Plan(context.Background(), models.VariantRequest{
		Text:         "notes",
		DesiredCount: 3,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, stub.calls)

	result, err := gen.Plan(context.Background(), models.VariantRequest{
		Text:         "notes",
		Niche:        "fitness",
		DesiredCount: 3,
	})
	require.NoError(t, err)
	assert.Len(t, result.Variants, 3)
	assert.Contains(t, stub.lastUser, `"fitness"`)
}

func TestCleanModelResponseNormalizesQuotes(t *testing.T) {
	raw := "```json\n[{“text”: “a”, “rationale”: “b”}]\n```"
	cleaned := cleanModelResponse(raw)

	assert.NotContains(t, cleaned, "```")
	assert.NotContains(t, cleaned, "“")

	result, err := parseVariants(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", result.Variants[0].Text)
}

func TestParseVariantsRejectsEmptyText(t *testing.T) {
	_, err := parseVariants(`[{"text":"  ","rationale":"r"}]`, 1)

	var malformed *models.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "empty text")
}

func TestBuildPromptsAreDeterministic(t *testing.T) {
	req := models.VariantRequest{Text: "caption", Tone: models.ToneFunny, DesiredCount: 4}
	assert.Equal(t, BuildImprovePrompt(req), BuildImprovePrompt(req))

	plan := models.VariantRequest{Text: "notes", Niche: "travel", DesiredCount: 2}
	assert.Equal(t, BuildPlanPrompt(plan), BuildPlanPrompt(plan))
	assert.Contains(t, BuildPlanPrompt(plan), "exactly 2")
}
