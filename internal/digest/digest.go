package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/stickies/internal/storage"
)

// Completer is the interface for text completion via a model runtime.
type Completer interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

const emptyDigest = "No notes yet today."

const digestInstructions = `Write a single short paragraph summarizing what these notes are about,
as a friendly daily digest. Plain text only, no lists, no JSON.
`

// Summarizer produces a one-paragraph daily digest of a batch of notes.
type Summarizer struct {
	completer Completer
	model     string
}

// NewSummarizer creates a Summarizer using the given completion client and model name.
func NewSummarizer(c Completer, model string) *Summarizer {
	return &Summarizer{completer: c, model: model}
}

// Daily summarizes the notes. An empty batch short-circuits to a canned
// message without a model call.
func (s *Summarizer) Daily(ctx context.Context, notes []storage.Note) (string, error) {
	if len(notes) == 0 {
		return emptyDigest, nil
	}

	var sb strings.Builder
	sb.WriteString("Today's notes:\n")
	for i, n := range notes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, n.Text)
	}
	sb.WriteString(digestInstructions)

	out, err := s.completer.Generate(ctx, s.model, sb.String())
	if err != nil {
		return "", fmt.Errorf("completing digest prompt: %w", err)
	}
	return strings.TrimSpace(out), nil
}
