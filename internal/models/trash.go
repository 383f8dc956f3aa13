package models

import "time"

// TrashEntry is a trash-listing projection of a soft-deleted note. It is
// recomputed on every listing and never persisted on its own. DeletedAt is
// the note's updated_at at the moment it entered the trash.
type TrashEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
}
