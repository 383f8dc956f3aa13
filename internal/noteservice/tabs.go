package noteservice

import "github.com/inkpot-app/inkpot/internal/models"

// OpenNote opens (or re-activates) a note id in the session tracker and
// makes it current.
func (s *Service) OpenNote(noteID string) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	s.sess.AddOrActivate(noteID)
}

// CloseNote removes a note id from the session tracker.
func (s *Service) CloseNote(noteID string) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	s.sess.Remove(noteID)
}

// RecentNotes returns the visible open-note ids in insertion order.
func (s *Service) RecentNotes() []string {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return s.sess.Visible()
}

// CurrentNoteID returns the current note id, or false when none is open.
func (s *Service) CurrentNoteID() (string, bool) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return s.sess.Current()
}

// CurrentNote returns a clone of the current note, or nil when none is open
// or the note has been removed from the notebook.
func (s *Service) CurrentNote() *models.Note {
	id, ok := s.CurrentNoteID()
	if !ok {
		return nil
	}
	s.nbMu.Lock()
	defer s.nbMu.Unlock()
	return s.nb.Find(id)
}

// MoveCurrentNote relocates the current note to anchor's slot in the
// open-note order, or to the end when anchor is nil. Returns false on a no-op.
func (s *Service) MoveCurrentNote(anchor *string) bool {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return s.sess.MoveCurrent(anchor)
}

// SetMaxOpenNotes changes how many open notes RecentNotes reports.
func (s *Service) SetMaxOpenNotes(n int) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	s.sess.SetMaxVisible(n)
}
