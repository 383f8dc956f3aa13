package noteservice

import (
	"log/slog"

	"github.com/inkpot-app/inkpot/internal/metrics"
	"github.com/inkpot-app/inkpot/internal/models"
)

// MoveToTrash removes the note from the notebook, flags the row as deleted,
// and closes its session entry.
func (s *Service) MoveToTrash(noteID string) error {
	s.nbMu.Lock()
	s.nb.Delete(noteID)
	s.nbMu.Unlock()

	s.stMu.Lock()
	err := s.st.MoveToTrash(noteID)
	s.stMu.Unlock()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		return err
	}

	s.sessMu.Lock()
	s.sess.Remove(noteID)
	s.sessMu.Unlock()

	metrics.NoteOperationsTotal.WithLabelValues("trash").Inc()
	s.notify("trashed", noteID)
	return nil
}

// RestoreFromTrash restores the durable row first, then re-inserts the
// authoritative copy into the notebook. Returns apperr.ErrNotFound when the
// id has been purged.
func (s *Service) RestoreFromTrash(noteID string) (*models.Note, error) {
	s.stMu.Lock()
	note, err := s.st.RestoreFromTrash(noteID)
	s.stMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.nbMu.Lock()
	s.nb.InsertOrReplace(note)
	s.nbMu.Unlock()

	metrics.NoteOperationsTotal.WithLabelValues("restore").Inc()
	s.notify("restored", noteID)
	return note, nil
}

// DeletePermanently purges the note row and all its versions. The transition
// is terminal; there is no way back from it.
func (s *Service) DeletePermanently(noteID string) error {
	s.nbMu.Lock()
	s.nb.Delete(noteID)
	s.nbMu.Unlock()

	s.sessMu.Lock()
	s.sess.Remove(noteID)
	s.sessMu.Unlock()

	s.stMu.Lock()
	err := s.st.DeletePermanently(noteID)
	s.stMu.Unlock()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("purge").Inc()
	s.notify("purged", noteID)
	return nil
}

// EmptyTrash purges every note in the trash snapshot taken at call time.
// Individual failures do not abort the batch; the purge count and the joined
// failures are both returned.
func (s *Service) EmptyTrash() (int, error) {
	s.stMu.Lock()
	purged, err := s.st.EmptyTrash()
	s.stMu.Unlock()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("store").Inc()
		s.logger.Warn("empty trash: some purges failed",
			slog.Int("purged", purged), slog.String("error", err.Error()))
	}
	if purged > 0 {
		metrics.NoteOperationsTotal.WithLabelValues("purge").Add(float64(purged))
		s.notify("purged", "")
	}
	return purged, err
}

// ListTrash returns the trash projection, most recently deleted first.
func (s *Service) ListTrash() ([]models.TrashEntry, error) {
	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.st.ListTrash()
}
