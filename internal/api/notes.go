package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/stickies/internal/grouping"
	"github.com/kalambet/stickies/internal/search"
	"github.com/kalambet/stickies/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Grouper abstracts the grouping service for the API layer.
type Grouper interface {
	Group(ctx context.Context, notes []storage.Note) (grouping.Result, error)
}

// NoteIndexer abstracts the embedding/indexing pipeline.
type NoteIndexer interface {
	IndexNote(ctx context.Context, n storage.Note) error
	Search(ctx context.Context, query string, topK int) ([]search.ScoredRecord, error)
	Remove(id string) error
}

// Digester abstracts the daily digest summarizer.
type Digester interface {
	Daily(ctx context.Context, notes []storage.Note) (string, error)
}

// Deps holds the collaborators for the HTTP handler layer, constructed once
// at process start and injected here.
type Deps struct {
	Store   *storage.Store
	Grouper Grouper
	Indexer NoteIndexer
	Digest  Digester
	Owner   string // default identity for notes created without one
	TopK    int    // default search result count
	Assets  fs.FS  // optional embedded front-end; nil disables it
}

// NewHandler returns the HTTP handler for the whole note surface.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(CORS)

	r.Get("/health", handleHealth)
	r.Post("/notes", handleCreateNote(deps))
	r.Get("/notes", handleListNotes(deps))
	r.Get("/notes/search", handleSearchNotes(deps))
	r.Post("/notes/group", handleGroupNotes(deps))
	r.Get("/notes/{id}", handleGetNote(deps))
	r.Delete("/notes/{id}", handleDeleteNote(deps))
	r.Get("/digest", handleDigest(deps))

	if deps.Assets != nil {
		r.Handle("/*", http.FileServer(http.FS(deps.Assets)))
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleCreateNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var note storage.Note
		if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if note.ID == "" || note.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "required fields: id, text")
			return
		}
		if note.CreatedAt.IsZero() {
			note.CreatedAt = time.Now().UTC()
		}
		if note.Owner == "" {
			note.Owner = deps.Owner
		}

		if err := deps.Store.SaveNote(note); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save note: %v", err)
			return
		}

		// The note is already stored; an indexing failure surfaces as a server
		// error without rolling the write back. Callers see the note on the
		// next list even when this request reports failure.
		if err := deps.Indexer.IndexNote(r.Context(), note); err != nil {
			slog.Error("indexing note failed", "note_id", note.ID, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to index note: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}
}

func handleListNotes(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := deps.Store.ListNotes()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list notes: %v", err)
			return
		}
		if notes == nil {
			notes = []storage.Note{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(notes)
	}
}

func handleGetNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "missing id")
			return
		}

		note, err := deps.Store.GetNote(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "note not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get note: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(note)
	}
}

func handleDeleteNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		// Vector cleanup is best-effort; a stale vector only means a stale
		// search hit until the next reindex.
		if err := deps.Indexer.Remove(id); err != nil {
			slog.Warn("removing note vector failed", "note_id", id, "error", err)
		}

		err := deps.Store.DeleteNote(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "note not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete note: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}
}

type groupRequest struct {
	Notes []storage.Note `json:"notes"`
}

func handleGroupNotes(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req groupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		result, err := deps.Grouper.Group(r.Context(), req.Notes)
		switch {
		case errors.Is(err, grouping.ErrEmptyBatch), errors.Is(err, grouping.ErrInvalidNote):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case err != nil:
			httpError(w, http.StatusBadGateway, "upstream_error", "grouping failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]grouping.Result{"grouped": result})
	}
}

type noteHit struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Owner string  `json:"owner"`
	Score float32 `json:"score"`
}

func handleSearchNotes(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "q is required")
			return
		}
		limit := parseIntParam(r, "limit", deps.TopK, 50)

		records, err := deps.Indexer.Search(r.Context(), query, limit)
		if err != nil {
			httpError(w, http.StatusBadGateway, "upstream_error", "search failed: %v", err)
			return
		}

		hits := make([]noteHit, len(records))
		for i, rec := range records {
			hits[i] = noteHit{ID: rec.ID, Text: rec.Text, Owner: rec.Owner, Score: rec.Score}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hits)
	}
}

func handleDigest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		midnight := time.Now().UTC().Truncate(24 * time.Hour)
		notes, err := deps.Store.ListNotesSince(midnight)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list notes: %v", err)
			return
		}

		summary, err := deps.Digest.Daily(r.Context(), notes)
		if err != nil {
			httpError(w, http.StatusBadGateway, "upstream_error", "digest failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"digest": summary})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
