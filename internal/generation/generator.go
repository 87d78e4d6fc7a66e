package generation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/postpulse/postpulse/internal/models"
)

const (
	MinVariantCount = 1
	MaxVariantCount = 10
)

// ChatCompleter is the one seam to the external generative-text provider.
// clients.GetOpenAIClient satisfies it in production.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator wraps the external model behind the variant contract. It does
// zero retries itself; retry policy belongs to the caller, which can tell
// retryable ExternalServiceError from non-retryable MalformedResponseError.
type Generator struct {
	completer ChatCompleter
}

func NewGenerator(completer ChatCompleter) *Generator {
	return &Generator{completer: completer}
}

// Improve produces tone-targeted rewrites of the request text.
func (g *Generator) Improve(ctx context.Context, req models.VariantRequest) (models.VariantResult, error) {
	if err := validateRequest(req); err != nil {
		return models.VariantResult{}, err
	}
	return g.generate(ctx, req, BuildImprovePrompt(req))
}

// Plan produces calendar post ideas for the request niche. Niche is
// required here, unlike the improve flow.
func (g *Generator) Plan(ctx context.Context, req models.VariantRequest) (models.VariantResult, error) {
	if err := validateRequest(req); err != nil {
		return models.VariantResult{}, err
	}
	if strings.TrimSpace(req.Niche) == "" {
		return models.VariantResult{}, models.ErrInvalidInput
	}
	return g.generate(ctx, req, BuildPlanPrompt(req))
}

func (g *Generator) generate(ctx context.Context, req models.VariantRequest, userPrompt string) (models.VariantResult, error) {
	start := time.Now()

	raw, err := g.completer.Complete(ctx, variantSystemPrompt, userPrompt)
	if err != nil {
		slog.Error("[Generator] Provider call failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return models.VariantResult{}, &models.ExternalServiceError{Err: err}
	}

	result, err := parseVariants(raw, req.DesiredCount)
	if err != nil {
		slog.Warn("[Generator] Model response failed validation",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return models.VariantResult{}, err
	}

	slog.Info("[Generator] Variants generated",
		slog.Int("count", len(result.Variants)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func validateRequest(req models.VariantRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return models.ErrInvalidInput
	}
	if req.DesiredCount < MinVariantCount || req.DesiredCount > MaxVariantCount {
		return models.ErrInvalidInput
	}
	return nil
}
