package generation

import (
	"fmt"

	"github.com/postpulse/postpulse/internal/analysis"
	"github.com/postpulse/postpulse/internal/models"
)

const variantSystemPrompt = `You are a social media copywriter.
**Important**:
- Preserve the **core message and any names or key entities** from the original text.
- Each variant must be a complete, ready-to-post caption.
- Each rationale must explain in one sentence why the variant should perform better.

### **STRICT OUTPUT FORMAT**
You MUST return only **valid JSON**, formatted exactly as follows:
[
  {"text": "XXX", "rationale": "XXX"}
]

### **REQUIREMENTS**
- **No Markdown formatting** (no triple backticks, no explanations).
- **No extra text before or after the JSON output**.
- **No trailing commas** in JSON objects or arrays.
- **Ensure correct escaping of special characters** in JSON strings.
- Return **exactly** the number of variants requested, no more, no fewer.
`

// BuildImprovePrompt renders the user message for the improve flow. The
// output is deterministic for a given request so retries at the gateway
// replay the identical prompt.
func BuildImprovePrompt(req models.VariantRequest) string {
	return fmt.Sprintf(
		"Rewrite the following social media caption in a %s tone. Produce exactly %d distinct variants.\n\nOriginal caption:\n%s",
		req.Tone, req.DesiredCount, analysis.MarkdownToText(req.Text))
}

// BuildPlanPrompt renders the user message for the planning flow: fresh
// post ideas for a niche, seeded by the caller's text.
func BuildPlanPrompt(req models.VariantRequest) string {
	return fmt.Sprintf(
		"Create exactly %d post ideas for a content calendar in the %q niche. Use the following notes as inspiration. Each idea's text field is the full caption; the rationale says where it fits in the calendar.\n\nNotes:\n%s",
		req.DesiredCount, req.Niche, analysis.MarkdownToText(req.Text))
}
