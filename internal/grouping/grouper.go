package grouping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kalambet/stickies/internal/storage"
)

// ErrEmptyBatch is returned when Group is called with no notes.
var ErrEmptyBatch = errors.New("no notes provided")

// ErrInvalidNote is returned when a note in the batch has empty text.
var ErrInvalidNote = errors.New("note text must not be empty")

// Completer is the interface for text completion via a model runtime.
type Completer interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// Category is a named cluster of note texts produced by the model. The note
// entries are display strings; the model may paraphrase, so callers must not
// assume they match stored note texts exactly.
type Category struct {
	Topic string   `json:"topic"`
	Notes []string `json:"notes"`
}

// Result is the outcome of a grouping call. When the model produced parseable
// output, Categories is populated; otherwise RawText carries the model's
// response verbatim so the caller can still display something.
type Result struct {
	Categories []Category `json:"categories,omitempty"`
	RawText    string     `json:"rawText,omitempty"`
}

// Structured reports whether the result carries parsed categories.
func (r Result) Structured() bool {
	return len(r.Categories) > 0
}

// Service turns a batch of notes into a thematic grouping using an unreliable
// free-text-generating model. It is stateless; every call is one prompt and
// one completion.
type Service struct {
	completer Completer
	model     string
}

// NewService creates a Service using the given completion client and model name.
func NewService(c Completer, model string) *Service {
	return &Service{completer: c, model: model}
}

// Group clusters the notes by theme. It fails only on invalid input or when
// the completion provider is unreachable; malformed model output degrades to
// an unstructured Result, never an error.
func (s *Service) Group(ctx context.Context, notes []storage.Note) (Result, error) {
	if len(notes) == 0 {
		return Result{}, ErrEmptyBatch
	}
	for i, n := range notes {
		if n.Text == "" {
			return Result{}, fmt.Errorf("note %d: %w", i+1, ErrInvalidNote)
		}
	}

	raw, err := s.completer.Generate(ctx, s.model, BuildPrompt(notes))
	if err != nil {
		return Result{}, fmt.Errorf("completing grouping prompt: %w", err)
	}

	result := ParseResult(raw)
	if !result.Structured() {
		slog.Warn("grouping output not parseable, returning raw text", "response_bytes", len(raw))
	}
	return result, nil
}
