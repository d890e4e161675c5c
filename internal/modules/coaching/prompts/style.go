package prompts

import (
	"strings"

	"github.com/yungbote/careercoach-backend/internal/modules/coaching/format"
)

// applyStyle prepends the shared guidance block to a system prompt.
func applyStyle(system string, shape format.Shape) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	var b strings.Builder
	b.WriteString("You are part of a career coaching service for people moving into technology roles.")
	b.WriteString("\nUse the provided resume, analysis and conversation as grounding and do not invent facts about the user.")
	if shape == format.ShapeFreeText {
		b.WriteString("\nBe concise, specific and practical.")
	} else {
		b.WriteString("\nFollow the requested output format exactly and add no commentary outside it.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
