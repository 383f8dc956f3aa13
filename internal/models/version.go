package models

import (
	"time"

	"github.com/google/uuid"
)

// NoteVersion is an immutable snapshot of a note's editable fields. NoteID is
// a weak reference: the version may outlive its note until permanent deletion.
type NoteVersion struct {
	ID      string    `json:"id"`
	NoteID  string    `json:"note_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Tags    []string  `json:"tags"`
	Comment string    `json:"comment"`
	SavedAt time.Time `json:"saved_at"`
}

// NewVersion snapshots the note under a fresh version id. Versions are never
// updated in place; saving twice always produces two distinct ids.
func NewVersion(comment string, n *Note) *NoteVersion {
	return &NoteVersion{
		ID:      uuid.NewString(),
		NoteID:  n.ID,
		Title:   n.Title,
		Content: n.Content,
		Tags:    n.TagList(),
		Comment: comment,
		SavedAt: time.Now().UTC(),
	}
}
