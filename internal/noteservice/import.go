package noteservice

import "github.com/inkpot-app/inkpot/internal/models"

// HasNote reports whether a live note with the given id exists.
func (s *Service) HasNote(noteID string) bool {
	s.nbMu.Lock()
	defer s.nbMu.Unlock()
	return s.nb.Find(noteID) != nil
}

// SaveImported persists an imported note and then updates the in-memory
// index. Unlike interactive edits, import goes durable-first: a note only
// appears in the notebook once its row is committed.
func (s *Service) SaveImported(note *models.Note) error {
	s.stMu.Lock()
	err := s.st.SaveNote(note)
	s.stMu.Unlock()
	if err != nil {
		return err
	}

	s.nbMu.Lock()
	s.nb.InsertOrReplace(note)
	s.nbMu.Unlock()

	s.notify("created", note.ID)
	return nil
}
