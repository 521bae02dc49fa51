package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kalambet/stickies/internal/storage"
)

type mockCompleter struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockCompleter) Generate(ctx context.Context, model string, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.response, m.err
}

func TestDaily_EmptyBatchSkipsModel(t *testing.T) {
	mock := &mockCompleter{}
	s := NewSummarizer(mock, "mistral")

	got, err := s.Daily(context.Background(), nil)
	if err != nil {
		t.Fatalf("Daily(nil): %v", err)
	}
	if got != emptyDigest {
		t.Errorf("Daily(nil) = %q, want %q", got, emptyDigest)
	}
	if mock.calls != 0 {
		t.Errorf("model called %d times for empty batch, want 0", mock.calls)
	}
}

func TestDaily_SummarizesNotes(t *testing.T) {
	mock := &mockCompleter{response: "  You planned a trip and remembered family.  "}
	s := NewSummarizer(mock, "mistral")

	notes := []storage.Note{
		{ID: "a", Text: "Book flights"},
		{ID: "b", Text: "Call mom"},
	}
	got, err := s.Daily(context.Background(), notes)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got != "You planned a trip and remembered family." {
		t.Errorf("Daily = %q, want trimmed model output", got)
	}
	if !strings.Contains(mock.lastPrompt, "1. Book flights\n") || !strings.Contains(mock.lastPrompt, "2. Call mom\n") {
		t.Errorf("prompt missing enumerated notes:\n%s", mock.lastPrompt)
	}
}

func TestDaily_UpstreamFailure(t *testing.T) {
	mock := &mockCompleter{err: errors.New("connection refused")}
	s := NewSummarizer(mock, "mistral")

	if _, err := s.Daily(context.Background(), []storage.Note{{ID: "a", Text: "x"}}); err == nil {
		t.Error("Daily with failing completer should return an error")
	}
}
