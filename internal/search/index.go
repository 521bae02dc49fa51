package search

import "time"

// VectorIndex is the interface for semantic note index backends. The default
// implementation stores vectors in the same SQLite database as the notes and
// searches with brute-force cosine similarity; a hosted vector service could
// implement the same surface.
type VectorIndex interface {
	// EnsureIndex creates the named index if it does not exist, recording its
	// fixed vector dimension and similarity method. Idempotent: calling it for
	// an existing index verifies the dimension and changes nothing.
	EnsureIndex(name string, dimension int, similarity string) error

	// Upsert inserts or replaces the record keyed by its ID.
	Upsert(name string, rec Record) error

	// Search returns the top-K records most similar to the query vector,
	// ordered by score descending.
	Search(name string, vector []float32, topK int) ([]ScoredRecord, error)

	// Delete removes a record by ID. Deleting an absent record is a no-op.
	Delete(name string, id string) error

	// Refresh makes pending writes visible to Search. A no-op for backends
	// whose writes are immediately visible.
	Refresh(name string) error

	// Count returns the number of records in the index.
	Count(name string) (int, error)
}

// Record is one indexed note.
type Record struct {
	ID        string
	Text      string
	Owner     string
	Embedding []float32
	CreatedAt time.Time
}

// ScoredRecord is a Record with a similarity score attached.
type ScoredRecord struct {
	Record
	Score float32
}
