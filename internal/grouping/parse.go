package grouping

import (
	"encoding/json"
	"strings"
)

// parsedPayload covers both output shapes models have been observed to emit:
// the requested {"categories": [...]} and the unsolicited {"groups": [...]}
// variant, whose entries may name their notes "items" and their topic "title".
type parsedPayload struct {
	Categories []parsedCategory `json:"categories"`
	Groups     []parsedGroup    `json:"groups"`
}

type parsedCategory struct {
	Topic string   `json:"topic"`
	Notes []string `json:"notes"`
}

type parsedGroup struct {
	Topic string   `json:"topic"`
	Title string   `json:"title"`
	Notes []string `json:"notes"`
	Items []string `json:"items"`
}

// ParseResult coerces free-form model output into a Result. Known JSON shapes
// are tried in priority order; anything else — prose, truncated JSON, an
// object without a recognized key — yields the unstructured variant carrying
// the provider's text verbatim. ParseResult never fails.
func ParseResult(raw string) Result {
	var payload parsedPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return Result{RawText: raw}
	}

	if len(payload.Categories) > 0 {
		categories := make([]Category, len(payload.Categories))
		for i, c := range payload.Categories {
			categories[i] = Category{Topic: c.Topic, Notes: c.Notes}
		}
		return Result{Categories: categories}
	}

	if len(payload.Groups) > 0 {
		categories := make([]Category, len(payload.Groups))
		for i, g := range payload.Groups {
			topic := g.Topic
			if topic == "" {
				topic = g.Title
			}
			notes := g.Notes
			if len(notes) == 0 {
				notes = g.Items
			}
			categories[i] = Category{Topic: topic, Notes: notes}
		}
		return Result{Categories: categories}
	}

	return Result{RawText: raw}
}

// stripCodeFence removes a surrounding markdown code fence, with or without a
// language tag. Models routinely wrap JSON answers in one even when told not to.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimSuffix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	return strings.TrimSpace(trimmed)
}
