// Package noteservice composes the in-memory notebook, the durable store, and
// the open-notes tracker behind operation-level contracts. It is the only
// package other subsystems call.
//
// Locking: the notebook and the store connection are each guarded by their
// own mutex. A logical operation takes the notebook lock, mutates memory,
// releases it, then takes the store lock for the durable write. Two
// concurrent operations on the same note id are last-writer-wins at the row
// level. The tracker has its own lock because the HTTP surface is concurrent.
package noteservice

import (
	"log/slog"
	"sync"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/metrics"
	"github.com/inkpot-app/inkpot/internal/models"
	"github.com/inkpot-app/inkpot/internal/session"
	"github.com/inkpot-app/inkpot/internal/store"
)

// ChangeCallback is invoked after a successful mutation.
// kind is one of "created", "updated", "trashed", "restored", "purged".
type ChangeCallback func(kind, noteID string)

// Service is the authoritative owner of the notebook, the store handle, and
// the session tracker.
type Service struct {
	nbMu    sync.Mutex
	nb      *models.Notebook
	stMu    sync.Mutex
	st      store.Contract
	sessMu  sync.Mutex
	sess    *session.Tracker[string]
	logger  *slog.Logger
	onEvent ChangeCallback
}

// New builds a service around a notebook already loaded from the store.
func New(nb *models.Notebook, st store.Contract, maxOpenNotes int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		nb:     nb,
		st:     st,
		sess:   session.New[string](maxOpenNotes),
		logger: logger,
	}
}

// OnChange registers a callback fired after successful mutations. Must be
// called before the service is shared between goroutines.
func (s *Service) OnChange(cb ChangeCallback) {
	s.onEvent = cb
}

func (s *Service) notify(kind, noteID string) {
	if s.onEvent != nil {
		s.onEvent(kind, noteID)
	}
}

// CreateNote makes a new untitled note, opens it as the current one, and
// persists it. The clone of the stored note is returned to the caller.
func (s *Service) CreateNote() (*models.Note, error) {
	note := models.NewNote("untitled")

	s.nbMu.Lock()
	s.nb.InsertOrReplace(note)
	s.nbMu.Unlock()

	s.sessMu.Lock()
	s.sess.AddOrActivate(note.ID)
	s.sessMu.Unlock()

	s.stMu.Lock()
	err := s.st.SaveNote(note)
	s.stMu.Unlock()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		s.logger.Error("create note: durable write failed",
			slog.String("note_id", note.ID), slog.String("error", err.Error()))
		return nil, err
	}

	metrics.NoteOperationsTotal.WithLabelValues("create").Inc()
	s.notify("created", note.ID)
	return note, nil
}

// GetNote returns a clone of the live note, or apperr.ErrNotFound.
func (s *Service) GetNote(noteID string) (*models.Note, error) {
	s.nbMu.Lock()
	note := s.nb.Find(noteID)
	s.nbMu.Unlock()
	if note == nil {
		return nil, apperr.ErrNotFound
	}
	return note, nil
}

// UpdateNote writes the caller's copy back into the notebook and persists it.
// The memory write is optimistic: on a durable failure the in-memory state is
// kept and the error is surfaced so the caller can retry or warn the user.
func (s *Service) UpdateNote(note *models.Note) error {
	s.nbMu.Lock()
	s.nb.InsertOrReplace(note)
	s.nbMu.Unlock()

	s.stMu.Lock()
	err := s.st.SaveNote(note)
	s.stMu.Unlock()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		s.logger.Warn("update note: memory and durable state diverged",
			slog.String("note_id", note.ID), slog.String("error", err.Error()))
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("update").Inc()
	s.notify("updated", note.ID)
	return nil
}

// SaveAll flushes every live note to durable storage in one transaction.
// The snapshot is taken under the notebook lock so concurrent edits cannot
// race the flush.
func (s *Service) SaveAll() error {
	s.nbMu.Lock()
	notes := s.nb.All()
	s.nbMu.Unlock()

	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.st.SaveAll(notes)
}

// FilterNotes returns clones of all notes whose title or content contains key
// (case-insensitive substring; empty key matches all).
func (s *Service) FilterNotes(key string) []*models.Note {
	s.nbMu.Lock()
	defer s.nbMu.Unlock()
	return s.nb.FilterByText(key, false)
}

// FilterNotesByTag returns clones of all notes carrying tag; nil means all.
func (s *Service) FilterNotesByTag(tag *string) []*models.Note {
	s.nbMu.Lock()
	defer s.nbMu.Unlock()
	return s.nb.FilterByTag(tag)
}

// TagCounts returns a snapshot of the tag usage counts.
func (s *Service) TagCounts() map[string]int {
	s.nbMu.Lock()
	defer s.nbMu.Unlock()
	return s.nb.TagCounts()
}
