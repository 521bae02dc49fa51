package search

import (
	"testing"
	"time"

	"github.com/kalambet/stickies/internal/storage"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewSQLiteIndex(store.DB())
}

func TestEnsureIndex_Idempotent(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.EnsureIndex("notes", 3, SimilarityMethod); err != nil {
		t.Fatalf("first EnsureIndex: %v", err)
	}
	if err := idx.EnsureIndex("notes", 3, SimilarityMethod); err != nil {
		t.Fatalf("second EnsureIndex: %v", err)
	}
}

func TestEnsureIndex_DimensionMismatch(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.EnsureIndex("notes", 3, SimilarityMethod); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if err := idx.EnsureIndex("notes", 4, SimilarityMethod); err == nil {
		t.Error("EnsureIndex with different dimension should fail")
	}
}

func TestUpsert_RejectsWrongVectorLength(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.EnsureIndex("notes", 3, SimilarityMethod); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}

	rec := Record{ID: "n1", Text: "short vector", Embedding: []float32{1, 2}}
	if err := idx.Upsert("notes", rec); err == nil {
		t.Error("Upsert with wrong vector length should fail")
	}
}

func TestUpsert_MissingIndex(t *testing.T) {
	idx := openTestIndex(t)

	rec := Record{ID: "n1", Text: "no index yet", Embedding: []float32{1, 2, 3}}
	if err := idx.Upsert("notes", rec); err == nil {
		t.Error("Upsert into a missing index should fail")
	}
}

func seedIndex(t *testing.T, idx *SQLiteIndex) {
	t.Helper()
	if err := idx.EnsureIndex("notes", 3, SimilarityMethod); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	now := time.Now().UTC()
	records := []Record{
		{ID: "travel", Text: "Book flights", Owner: "demo-user", Embedding: []float32{1, 0, 0}, CreatedAt: now},
		{ID: "family", Text: "Call mom", Owner: "demo-user", Embedding: []float32{0, 1, 0}, CreatedAt: now},
		{ID: "mixed", Text: "Pack clothes", Owner: "demo-user", Embedding: []float32{0.7, 0.7, 0}, CreatedAt: now},
	}
	for _, r := range records {
		if err := idx.Upsert("notes", r); err != nil {
			t.Fatalf("Upsert(%s): %v", r.ID, err)
		}
	}
}

func TestSearch_OrdersByScore(t *testing.T) {
	idx := openTestIndex(t)
	seedIndex(t, idx)

	results, err := idx.Search("notes", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ID != "travel" {
		t.Errorf("results[0].ID = %q, want travel", results[0].ID)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not ordered by score: %f < %f", results[0].Score, results[1].Score)
	}
}

func TestSearch_ZeroQueryVector(t *testing.T) {
	idx := openTestIndex(t)
	seedIndex(t, idx)

	results, err := idx.Search("notes", []float32{0, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Errorf("Search with zero vector = %+v, want nil", results)
	}
}

func TestUpsert_ReplacesExisting(t *testing.T) {
	idx := openTestIndex(t)
	seedIndex(t, idx)

	updated := Record{ID: "travel", Text: "Book flights to Madrid", Embedding: []float32{0, 0, 1}}
	if err := idx.Upsert("notes", updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	count, err := idx.Count("notes")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3 (upsert must replace, not duplicate)", count)
	}

	results, err := idx.Search("notes", []float32{0, 0, 1}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Text != "Book flights to Madrid" {
		t.Errorf("Search after upsert = %+v, want the replaced text", results)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	idx := openTestIndex(t)
	seedIndex(t, idx)

	if err := idx.Delete("notes", "travel"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := idx.Delete("notes", "travel"); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}

	count, err := idx.Count("notes")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}
