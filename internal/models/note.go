// Package models defines the domain types for Inkpot.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is the atomic unit of content. The id is generated once and never
// changes. Tags are an unordered set of unique strings.
type Note struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Tags      map[string]bool `json:"tags"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Pinned    bool            `json:"pinned"`
}

// NewNote creates a note with a fresh id, empty content, and no tags.
func NewNote(title string) *Note {
	now := time.Now().UTC()
	return &Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   "",
		Tags:      make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy. Callers outside the notebook only ever see
// clones, so no mutable state is shared across the service boundary.
func (n *Note) Clone() *Note {
	cp := *n
	cp.Tags = make(map[string]bool, len(n.Tags))
	for t := range n.Tags {
		cp.Tags[t] = true
	}
	return &cp
}

// SetTitle updates the title and refreshes UpdatedAt when the value changed.
// Returns true if a change was made.
func (n *Note) SetTitle(title string) bool {
	if n.Title == title {
		return false
	}
	n.Title = title
	n.UpdatedAt = time.Now().UTC()
	return true
}

// SetContent updates the content and refreshes UpdatedAt when the value changed.
// Returns true if a change was made.
func (n *Note) SetContent(content string) bool {
	if n.Content == content {
		return false
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	return true
}

// AddTag inserts a tag. Tag changes never touch UpdatedAt.
// Returns true if the tag was not already present.
func (n *Note) AddTag(tag string) bool {
	if n.Tags[tag] {
		return false
	}
	if n.Tags == nil {
		n.Tags = make(map[string]bool)
	}
	n.Tags[tag] = true
	return true
}

// RemoveTag deletes a tag. Returns true if the tag was present.
func (n *Note) RemoveTag(tag string) bool {
	if !n.Tags[tag] {
		return false
	}
	delete(n.Tags, tag)
	return true
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	return n.Tags[tag]
}

// TagList returns the tags as a slice in unspecified order, never nil.
func (n *Note) TagList() []string {
	out := make([]string, 0, len(n.Tags))
	for t := range n.Tags {
		out = append(out, t)
	}
	return out
}

// Contains reports whether the title or content contains key as a plain
// substring. Matching is case-insensitive unless caseSensitive is true.
// An empty key matches every note.
func (n *Note) Contains(key string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(n.Title, key) || strings.Contains(n.Content, key)
	}
	k := strings.ToLower(key)
	return strings.Contains(strings.ToLower(n.Title), k) ||
		strings.Contains(strings.ToLower(n.Content), k)
}

// ApplyVersion copies the snapshot's editable fields back onto the note and
// sets UpdatedAt to the snapshot's SavedAt. It does not create a new version.
func (n *Note) ApplyVersion(v *NoteVersion) {
	n.Title = v.Title
	n.Content = v.Content
	n.Tags = make(map[string]bool, len(v.Tags))
	for _, t := range v.Tags {
		n.Tags[t] = true
	}
	n.UpdatedAt = v.SavedAt
}

// TagSet builds a tag set from a slice, dropping empty strings and duplicates.
func TagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t != "" {
			set[t] = true
		}
	}
	return set
}
