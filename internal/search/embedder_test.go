package search

import (
	"context"
	"errors"
	"testing"
)

// mockEmbeddingClient implements EmbeddingClient for testing.
type mockEmbeddingClient struct {
	vectors map[string][]float32
	err     error
}

func (m *mockEmbeddingClient) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 0}, nil
}

func TestEmbed(t *testing.T) {
	mock := &mockEmbeddingClient{vectors: map[string][]float32{"Call mom": {0, 1, 0}}}
	e := NewEmbedder(mock, "nomic-embed-text")

	vec, err := e.Embed(context.Background(), "Call mom")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[1] != 1 {
		t.Errorf("Embed = %v, want [0 1 0]", vec)
	}
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	mock := &mockEmbeddingClient{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0, 0, 1},
	}}
	e := NewEmbedder(mock, "nomic-embed-text")

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("len(vecs) = %d, want 3", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 || vecs[2][2] != 1 {
		t.Errorf("EmbedBatch results out of order: %v", vecs)
	}
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	e := NewEmbedder(&mockEmbeddingClient{}, "nomic-embed-text")

	vecs, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch(nil): %v", err)
	}
	if vecs != nil {
		t.Errorf("EmbedBatch(nil) = %v, want nil", vecs)
	}
}

func TestEmbedBatch_PropagatesError(t *testing.T) {
	mock := &mockEmbeddingClient{err: errors.New("runtime down")}
	e := NewEmbedder(mock, "nomic-embed-text")

	if _, err := e.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("EmbedBatch with failing client should return an error")
	}
}
