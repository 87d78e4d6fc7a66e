package generation

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/postpulse/postpulse/internal/models"
)

// cleanModelResponse strips the code fences and curly quotes models emit
// despite being told not to.
func cleanModelResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`) // left curly quote
	response = strings.ReplaceAll(response, "”", `"`) // right curly quote

	return strings.TrimSpace(response)
}

// parseVariants validates the cleaned model output against the contract:
// a JSON array of exactly desiredCount entries, each with non-empty text.
// Anything else is a MalformedResponseError, never a silent pass-through.
func parseVariants(raw string, desiredCount int) (models.VariantResult, error) {
	cleaned := cleanModelResponse(raw)

	var variants []models.Variant
	if err := json.Unmarshal([]byte(cleaned), &variants); err != nil {
		return models.VariantResult{}, &models.MalformedResponseError{
			Reason: "response is not a JSON array of variants: " + err.Error(),
			Raw:    preview(raw),
		}
	}

	if len(variants) != desiredCount {
		return models.VariantResult{}, &models.MalformedResponseError{
			Reason: "expected " + strconv.Itoa(desiredCount) + " variants, got " + strconv.Itoa(len(variants)),
			Raw:    preview(raw),
		}
	}

	for i, v := range variants {
		if strings.TrimSpace(v.Text) == "" {
			return models.VariantResult{}, &models.MalformedResponseError{
				Reason: "variant " + strconv.Itoa(i) + " has empty text",
				Raw:    preview(raw),
			}
		}
	}

	return models.VariantResult{Variants: variants}, nil
}

func preview(raw string) string {
	if len(raw) > 200 {
		return raw[:200]
	}
	return raw
}
