// Package porter imports and exports notes as Markdown (with YAML front
// matter) and JSON files, applying a configurable merge strategy when an
// imported id collides with a live note.
package porter

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/inkpot-app/inkpot/internal/models"
)

// MergeStrategy decides what happens when an imported record's id collides
// with a live note.
type MergeStrategy string

const (
	// MergeSkip leaves the existing note untouched and drops the record.
	MergeSkip MergeStrategy = "skip"
	// MergeOverwrite replaces the existing note.
	MergeOverwrite MergeStrategy = "overwrite"
	// MergeRename imports the record under a fresh id.
	MergeRename MergeStrategy = "rename"
)

// Valid reports whether the strategy is one of the known values.
func (m MergeStrategy) Valid() bool {
	switch m {
	case MergeSkip, MergeOverwrite, MergeRename:
		return true
	}
	return false
}

// Record is one importable note handed across the boundary: title, tag set,
// content, and optional id/timestamps. Exports produce the same shape.
type Record struct {
	ID      string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string     `json:"title" yaml:"title"`
	Tags    []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Content string     `json:"content" yaml:"content"`
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Validate checks the record before it is turned into a note.
func (r Record) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

// ToNote materialises the record as a note. A missing id gets a fresh uuid;
// missing timestamps default to now.
func (r Record) ToNote() *models.Note {
	now := time.Now().UTC()
	note := &models.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      models.TagSet(r.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if r.Created != nil {
		note.CreatedAt = r.Created.UTC()
	}
	if r.Updated != nil && !r.Updated.Before(note.CreatedAt) {
		note.UpdatedAt = r.Updated.UTC()
	} else {
		note.UpdatedAt = note.CreatedAt
	}
	return note
}

// FromNote builds an export record from a note.
func FromNote(n *models.Note) Record {
	created := n.CreatedAt
	updated := n.UpdatedAt
	return Record{
		ID:      n.ID,
		Title:   n.Title,
		Tags:    n.TagList(),
		Content: n.Content,
		Created: &created,
		Updated: &updated,
	}
}
