package noteservice

import (
	"errors"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/metrics"
	"github.com/inkpot-app/inkpot/internal/models"
)

// SaveVersion snapshots the live note under a fresh version id.
func (s *Service) SaveVersion(comment, noteID string) (*models.NoteVersion, error) {
	note, err := s.GetNote(noteID)
	if err != nil {
		return nil, err
	}
	v := models.NewVersion(comment, note)

	s.stMu.Lock()
	err = s.st.SaveVersion(v)
	s.stMu.Unlock()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		return nil, err
	}

	metrics.NoteOperationsTotal.WithLabelValues("version").Inc()
	return v, nil
}

// RestoreVersion copies a snapshot's fields back onto its live note, setting
// the note's updated_at to the snapshot's saved_at. It does not record a new
// version. When the referenced note no longer exists the call is a no-op,
// not an error.
func (s *Service) RestoreVersion(v *models.NoteVersion) error {
	note, err := s.GetNote(v.NoteID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	note.ApplyVersion(v)
	return s.UpdateNote(note)
}

// RestoreVersionByID looks the snapshot up and restores it. Returns
// apperr.ErrNotFound when no such version exists.
func (s *Service) RestoreVersionByID(versionID string) error {
	s.stMu.Lock()
	v, err := s.st.GetVersion(versionID)
	s.stMu.Unlock()
	if err != nil {
		return err
	}
	return s.RestoreVersion(v)
}

// DeleteVersion removes a single snapshot.
func (s *Service) DeleteVersion(versionID string) error {
	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.st.DeleteVersion(versionID)
}

// ListVersions returns every snapshot recorded for the note.
func (s *Service) ListVersions(noteID string) ([]models.NoteVersion, error) {
	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.st.ListVersions(noteID)
}
