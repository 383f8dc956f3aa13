package models

// Notebook is the in-memory index over live notes. It owns the tag usage
// counts: after every mutation, the count for each tag equals the number of
// live notes carrying that tag, and a tag whose count reaches zero is removed
// from the map rather than left at zero.
//
// Notebook is not safe for concurrent use; the service layer guards it with
// a mutex.
type Notebook struct {
	notes map[string]*Note
	tags  map[string]int
}

// NewNotebook returns an empty notebook.
func NewNotebook() *Notebook {
	return &Notebook{
		notes: make(map[string]*Note),
		tags:  make(map[string]int),
	}
}

// InsertOrReplace stores a clone of note under its id. If a note with the
// same id exists, the old note's tag counts are released before the new
// note's are added. Observers never see a partially updated count map because
// the notebook is mutated under the caller's lock.
func (nb *Notebook) InsertOrReplace(note *Note) {
	if old, ok := nb.notes[note.ID]; ok {
		nb.releaseTags(old)
	}
	cp := note.Clone()
	nb.notes[cp.ID] = cp
	for t := range cp.Tags {
		nb.tags[t]++
	}
}

// Delete removes the note and releases its tag counts. No-op if absent.
func (nb *Notebook) Delete(noteID string) {
	note, ok := nb.notes[noteID]
	if !ok {
		return
	}
	nb.releaseTags(note)
	delete(nb.notes, noteID)
}

// Find returns a clone of the note, or nil if absent. The notebook never
// hands out a mutable alias into the index.
func (nb *Notebook) Find(noteID string) *Note {
	note, ok := nb.notes[noteID]
	if !ok {
		return nil
	}
	return note.Clone()
}

// FilterByText returns clones of all notes whose title or content contains
// key as a substring, case-insensitively unless caseSensitive is true.
// An empty key matches every note.
func (nb *Notebook) FilterByText(key string, caseSensitive bool) []*Note {
	var out []*Note
	for _, note := range nb.notes {
		if key == "" || note.Contains(key, caseSensitive) {
			out = append(out, note.Clone())
		}
	}
	return out
}

// FilterByTag returns clones of all notes carrying the given tag. A nil tag
// returns every note.
func (nb *Notebook) FilterByTag(tag *string) []*Note {
	var out []*Note
	for _, note := range nb.notes {
		if tag == nil || note.HasTag(*tag) {
			out = append(out, note.Clone())
		}
	}
	return out
}

// TagCounts returns a snapshot copy of the tag usage counts.
func (nb *Notebook) TagCounts() map[string]int {
	out := make(map[string]int, len(nb.tags))
	for t, c := range nb.tags {
		out[t] = c
	}
	return out
}

// Len returns the number of live notes.
func (nb *Notebook) Len() int {
	return len(nb.notes)
}

// All returns clones of every live note in unspecified order.
func (nb *Notebook) All() []*Note {
	out := make([]*Note, 0, len(nb.notes))
	for _, note := range nb.notes {
		out = append(out, note.Clone())
	}
	return out
}

func (nb *Notebook) releaseTags(note *Note) {
	for t := range note.Tags {
		if c, ok := nb.tags[t]; ok {
			if c <= 1 {
				delete(nb.tags, t)
			} else {
				nb.tags[t] = c - 1
			}
		}
	}
}
