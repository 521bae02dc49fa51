package search

import (
	"container/heap"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"
)

// Compile-time check that SQLiteIndex implements VectorIndex.
var _ VectorIndex = (*SQLiteIndex)(nil)

// SQLiteIndex stores note vectors in SQLite and searches them with
// brute-force cosine similarity. Adequate for the note counts a single user
// produces; an ANN-backed service would slot in behind the same interface.
type SQLiteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex wraps an existing *sql.DB for vector operations. The
// vector_indexes and note_vectors tables must already exist (created via
// storage migrations).
func NewSQLiteIndex(db *sql.DB) *SQLiteIndex {
	return &SQLiteIndex{db: db}
}

// EnsureIndex registers the index metadata if absent. An existing index with
// a different dimension is a configuration error, not something to repair
// silently.
func (s *SQLiteIndex) EnsureIndex(name string, dimension int, similarity string) error {
	if dimension <= 0 {
		return fmt.Errorf("index %s: dimension must be positive, got %d", name, dimension)
	}

	var existing int
	err := s.db.QueryRow(`SELECT dimension FROM vector_indexes WHERE name = ?`, name).Scan(&existing)
	if err == nil {
		if existing != dimension {
			return fmt.Errorf("index %s exists with dimension %d, requested %d", name, existing, dimension)
		}
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking index %s: %w", name, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO vector_indexes (name, dimension, similarity, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING`,
		name, dimension, similarity, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", name, err)
	}
	return nil
}

// Upsert inserts or replaces a record, validating the vector length against
// the index dimension.
func (s *SQLiteIndex) Upsert(name string, rec Record) error {
	var dimension int
	err := s.db.QueryRow(`SELECT dimension FROM vector_indexes WHERE name = ?`, name).Scan(&dimension)
	if err == sql.ErrNoRows {
		return fmt.Errorf("index %s does not exist", name)
	}
	if err != nil {
		return fmt.Errorf("checking index %s: %w", name, err)
	}
	if len(rec.Embedding) != dimension {
		return fmt.Errorf("index %s: vector length %d does not match dimension %d", name, len(rec.Embedding), dimension)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT INTO note_vectors (id, index_name, text, owner, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET index_name = excluded.index_name, text = excluded.text,
			owner = excluded.owner, embedding = excluded.embedding, created_at = excluded.created_at`,
		rec.ID, name, rec.Text, rec.Owner, encodeFloat32s(rec.Embedding), createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting record %s: %w", rec.ID, err)
	}
	return nil
}

// Search scans all vectors in the index, keeping the top-K by cosine
// similarity in a min-heap.
func (s *SQLiteIndex) Search(name string, vector []float32, topK int) ([]ScoredRecord, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryNorm := norm(vector)
	if queryNorm == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT id, text, owner, embedding, created_at FROM note_vectors WHERE index_name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	h := &scoredHeap{}
	heap.Init(h)

	for rows.Next() {
		var rec Record
		var blob []byte
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Owner, &blob, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		embedding, err := decodeFloat32s(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", rec.ID, err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", rec.ID, err)
		}
		rec.Embedding = embedding
		rec.CreatedAt = t

		score := cosine(vector, embedding, queryNorm)
		if h.Len() < topK {
			heap.Push(h, ScoredRecord{Record: rec, Score: score})
		} else if score > (*h)[0].Score {
			(*h)[0] = ScoredRecord{Record: rec, Score: score}
			heap.Fix(h, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	results := make([]ScoredRecord, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = heap.Pop(h).(ScoredRecord)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// Delete removes a record by ID. Absent records are ignored so deletion stays
// fire-and-forget for callers.
func (s *SQLiteIndex) Delete(name string, id string) error {
	_, err := s.db.Exec(`DELETE FROM note_vectors WHERE index_name = ? AND id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

// Refresh is a no-op: SQLite writes are visible to the next query as soon as
// they commit.
func (s *SQLiteIndex) Refresh(name string) error {
	return nil
}

// Count returns the number of records in the index.
func (s *SQLiteIndex) Count(name string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM note_vectors WHERE index_name = ?`, name).Scan(&count)
	return count, err
}

// encodeFloat32s serializes a float32 slice to little-endian bytes.
func encodeFloat32s(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeFloat32s deserializes little-endian bytes into a float32 slice.
func decodeFloat32s(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("byte slice length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// norm returns the L2 norm of a vector.
func norm(v []float32) float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return float32(math.Sqrt(sum))
}

// cosine computes cosine similarity as dot(a,b) / (aNorm * bNorm), with
// aNorm precomputed for the query vector.
func cosine(a, b []float32, aNorm float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, bNormSq float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		bNormSq += float64(b[i]) * float64(b[i])
	}
	bNorm := math.Sqrt(bNormSq)
	if bNorm == 0 {
		return 0
	}
	return float32(dot / (float64(aNorm) * bNorm))
}

// scoredHeap is a min-heap of ScoredRecord ordered by Score, used to track
// top-K candidates during a search scan.
type scoredHeap []ScoredRecord

func (h scoredHeap) Len() int            { return len(h) }
func (h scoredHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h scoredHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x interface{}) { *h = append(*h, x.(ScoredRecord)) }
func (h *scoredHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
