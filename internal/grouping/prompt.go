package grouping

import (
	"fmt"
	"strings"

	"github.com/kalambet/stickies/internal/storage"
)

const promptHeader = `You are an AI assistant that groups similar notes together by theme or intent.
Given these notes:
`

const promptInstructions = `Return a JSON object with categories and which notes belong to each category.
Example:
{
  "categories": [
    { "topic": "Travel", "notes": ["Book flights to Madrid", "Pack clothes"] },
    { "topic": "Personal", "notes": ["Call mom"] }
  ]
}
`

// BuildPrompt renders the grouping prompt: notes enumerated one per line in
// input order, then the instruction with an illustrative example. Note texts
// are interpolated verbatim — no trimming, escaping, or case folding — so the
// same batch always yields the same prompt.
func BuildPrompt(notes []storage.Note) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	for i, n := range notes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, n.Text)
	}
	sb.WriteString(promptInstructions)
	return sb.String()
}
