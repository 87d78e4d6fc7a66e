package models

import "strings"

// Tone values accepted by the analysis and generation flows.
const (
	ToneProfessional  = "professional"
	ToneCasual        = "casual"
	ToneFunny         = "funny"
	ToneFriendly      = "friendly"
	ToneInspirational = "inspirational"
	ToneEducational   = "educational"
	TonePromotional   = "promotional"
)

var validTones = map[string]struct{}{
	ToneProfessional:  {},
	ToneCasual:        {},
	ToneFunny:         {},
	ToneFriendly:      {},
	ToneInspirational: {},
	ToneEducational:   {},
	TonePromotional:   {},
}

type ContentInput struct {
	Text  string `json:"text"`
	Niche string `json:"niche,omitempty"`
	Tone  string `json:"tone,omitempty"`
}

// Normalize trims the optional fields and falls back to the default tone.
// Text is left untouched; every derived value is computed from it as-is.
func (c ContentInput) Normalize() ContentInput {
	c.Niche = strings.TrimSpace(c.Niche)
	tone := strings.ToLower(strings.TrimSpace(c.Tone))
	if _, ok := validTones[tone]; !ok {
		tone = ToneProfessional
	}
	c.Tone = tone
	return c
}

func IsValidTone(tone string) bool {
	_, ok := validTones[strings.ToLower(strings.TrimSpace(tone))]
	return ok
}
