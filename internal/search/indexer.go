package search

import (
	"context"
	"fmt"

	"github.com/kalambet/stickies/internal/storage"
)

// SimilarityMethod names the distance metric recorded in index metadata.
const SimilarityMethod = "cosine"

// Indexer ties the embedder and vector index together: it embeds note text
// and keeps the semantic index in sync with the note store.
type Indexer struct {
	embedder  *Embedder
	index     VectorIndex
	indexName string
	dimension int
}

// NewIndexer creates an Indexer writing to the named index with the given
// fixed vector dimension.
func NewIndexer(embedder *Embedder, index VectorIndex, indexName string, dimension int) *Indexer {
	return &Indexer{
		embedder:  embedder,
		index:     index,
		indexName: indexName,
		dimension: dimension,
	}
}

// IndexNote runs the post-create pipeline for one note: ensure the index
// exists, embed the text, upsert the record keyed by note id, and refresh so
// the upsert is query-visible. Steps run sequentially; the first failure
// aborts the rest and is returned to the caller.
func (ix *Indexer) IndexNote(ctx context.Context, n storage.Note) error {
	if err := ix.index.EnsureIndex(ix.indexName, ix.dimension, SimilarityMethod); err != nil {
		return fmt.Errorf("ensuring index: %w", err)
	}

	vec, err := ix.embedder.Embed(ctx, n.Text)
	if err != nil {
		return fmt.Errorf("embedding note %s: %w", n.ID, err)
	}

	rec := Record{
		ID:        n.ID,
		Text:      n.Text,
		Owner:     n.Owner,
		Embedding: vec,
		CreatedAt: n.CreatedAt,
	}
	if err := ix.index.Upsert(ix.indexName, rec); err != nil {
		return fmt.Errorf("upserting note %s: %w", n.ID, err)
	}

	if err := ix.index.Refresh(ix.indexName); err != nil {
		return fmt.Errorf("refreshing index: %w", err)
	}
	return nil
}

// Search embeds the query and returns the top-K most similar notes.
func (ix *Indexer) Search(ctx context.Context, query string, topK int) ([]ScoredRecord, error) {
	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return ix.index.Search(ix.indexName, vec, topK)
}

// Remove drops a note's vector from the index. Absent vectors are ignored.
func (ix *Indexer) Remove(id string) error {
	return ix.index.Delete(ix.indexName, id)
}
