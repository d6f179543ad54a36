package gg

import (
	"fmt"
	"strings"

	"goodgood/internal/model"
)

// SystemPrompt is the instruction sent to every provider. The language list
// comes from model.Languages so the prompt and the validator never disagree.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that generates uplifting, culture-neutral daily messages.\n")
	b.WriteString("You must output strictly valid JSON.\n")
	b.WriteString("The schema is:\n")
	b.WriteString("{\n")
	b.WriteString("  \"message\": \"The uplifting message in English\",\n")
	b.WriteString("  \"translations\": {\n")
	b.WriteString("    \"en\": \"...\",\n")
	b.WriteString("    \"es\": \"...\",\n")
	fmt.Fprintf(&b, "    ... (all %d languages)\n", len(model.Languages))
	b.WriteString("  },\n")
	b.WriteString("  \"theme\": {\n")
	b.WriteString("    \"bg\": \"#RRGGBB\",\n")
	b.WriteString("    \"fg\": \"#RRGGBB\",\n")
	b.WriteString("    \"accent\": \"#RRGGBB\"\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "The %d languages are: %s.\n", len(model.Languages), strings.Join(model.LanguageCodes(), ", "))
	b.WriteString("The theme should be pleasing and vary daily.\n")
	b.WriteString("Do not include any text outside the JSON.\n")
	return b.String()
}

// Prompt is the per-run user prompt for date.
func Prompt(date string) string {
	return fmt.Sprintf("Generate the daily message for %s.", date)
}
