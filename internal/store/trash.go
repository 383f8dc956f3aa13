package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/models"
)

// MoveToTrash sets the soft-delete flag and refreshes updated_at in one
// transaction. The row and its versions stay in durable storage.
func (s *Store) MoveToTrash(noteID string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		UPDATE notes SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0
	`, formatTime(time.Now()), noteID)
	if err != nil {
		return fmt.Errorf("store: move to trash: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}

// RestoreFromTrash clears the soft-delete flag, refreshes updated_at, and
// re-reads the row so the caller gets the authoritative state. Returns
// apperr.ErrNotFound if the id is absent (for instance after a purge).
func (s *Store) RestoreFromTrash(noteID string) (*models.Note, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		UPDATE notes SET is_deleted = 0, updated_at = ?
		WHERE id = ?
	`, formatTime(time.Now()), noteID)
	if err != nil {
		return nil, fmt.Errorf("store: restore from trash: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}

	row := tx.QueryRow(`
		SELECT id, title, content, tags, created_at, updated_at, is_pinned
		FROM notes WHERE id = ?
	`, noteID)
	note, err := scanNote(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit restore: %w", err)
	}
	return note, nil
}

// DeletePermanently removes all versions for the note and then the note row,
// in that order, in one transaction. The ordering is an explicit contract
// (versions before parent), not delegated to engine-level cascades.
func (s *Store) DeletePermanently(noteID string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM note_versions WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("store: delete versions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, noteID); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return tx.Commit()
}

// ListTrash returns the trash projection for every soft-deleted row, most
// recently deleted first.
func (s *Store) ListTrash() ([]models.TrashEntry, error) {
	rows, err := s.conn.Query(`
		SELECT id, title, updated_at
		FROM notes
		WHERE is_deleted = 1
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list trash: %w", err)
	}
	defer rows.Close()

	var out []models.TrashEntry
	for rows.Next() {
		var (
			e   models.TrashEntry
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Title, &raw); err != nil {
			return nil, fmt.Errorf("store: scan trash entry: %w", err)
		}
		e.DeletedAt = parseTime(raw)
		out = append(out, e)
	}
	return out, rows.Err()
}

// EmptyTrash permanently deletes every note in the trash snapshot taken at
// call time. Each purge is atomic on its own; a failed purge is recorded and
// the loop continues. Returns the purge count and the joined failures.
func (s *Store) EmptyTrash() (int, error) {
	entries, err := s.ListTrash()
	if err != nil {
		return 0, err
	}

	purged := 0
	var errs []error
	for _, e := range entries {
		if err := s.DeletePermanently(e.ID); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", e.ID, err))
			continue
		}
		purged++
	}
	return purged, errors.Join(errs...)
}

// trashRowExists reports whether an id exists regardless of its trash state.
// Used by tests to assert purge irreversibility.
func (s *Store) trashRowExists(noteID string) (bool, error) {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM notes WHERE id = ?`, noteID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
