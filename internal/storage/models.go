package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Note is a single sticky note. Notes are immutable after creation; the only
// mutation supported is deletion.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}
