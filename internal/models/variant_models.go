package models

// VariantRequest describes one call to the external generative model.
// Improve flows carry Tone, planning flows carry Niche.
type VariantRequest struct {
	Text         string `json:"text"`
	Tone         string `json:"tone,omitempty"`
	Niche        string `json:"niche,omitempty"`
	DesiredCount int    `json:"desired_count"`
}

type Variant struct {
	Text      string `json:"text"`
	Rationale string `json:"rationale"`
}

// VariantResult is the validated model output: exactly DesiredCount variants
// in the order the model produced them.
type VariantResult struct {
	Variants []Variant `json:"variants"`
}
