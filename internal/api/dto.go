package api

import (
	"time"

	"github.com/inkpot-app/inkpot/internal/models"
)

// NoteDTO is the wire representation of a note.
type NoteDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Pinned    bool      `json:"pinned"`
}

func toNoteDTO(n *models.Note) NoteDTO {
	tags := n.TagList()
	if tags == nil {
		tags = []string{}
	}
	return NoteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Pinned:    n.Pinned,
	}
}

func toNoteDTOs(notes []*models.Note) []NoteDTO {
	out := make([]NoteDTO, len(notes))
	for i, n := range notes {
		out[i] = toNoteDTO(n)
	}
	return out
}

// UpdateNoteRequest is the request body for updating a note. Pointer fields
// are applied only when present.
type UpdateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Pinned  *bool     `json:"pinned"`
}

// SaveVersionRequest is the request body for snapshotting a note.
type SaveVersionRequest struct {
	Comment string `json:"comment"`
}

// SessionResponse reports the open-notes state.
type SessionResponse struct {
	Open    []string `json:"open"`
	Current string   `json:"current,omitempty"`
}

// OpenNoteRequest names a note id for session operations.
type OpenNoteRequest struct {
	ID string `json:"id"`
}

// MoveCurrentRequest relocates the current note to an anchor id's slot;
// a missing anchor moves it to the end.
type MoveCurrentRequest struct {
	Anchor *string `json:"anchor"`
}

// EmptyTrashResponse reports the outcome of a trash purge pass.
type EmptyTrashResponse struct {
	Purged int    `json:"purged"`
	Errors string `json:"errors,omitempty"`
}
