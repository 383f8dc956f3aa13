package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/models"
)

// SaveVersion inserts a version snapshot in one transaction. Snapshots are
// write-once; an id collision is a caller bug and surfaces as a constraint
// error.
func (s *Store) SaveVersion(v *models.NoteVersion) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tagsJSON, _ := json.Marshal(v.Tags)
	_, err = tx.Exec(`
		INSERT INTO note_versions (id, note_id, title, content, tags, comment, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.NoteID, v.Title, v.Content, string(tagsJSON), v.Comment,
		formatTime(v.SavedAt))
	if err != nil {
		return fmt.Errorf("store: save version: %w", err)
	}
	return tx.Commit()
}

// DeleteVersion removes a single version snapshot.
func (s *Store) DeleteVersion(versionID string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM note_versions WHERE id = ?`, versionID); err != nil {
		return fmt.Errorf("store: delete version: %w", err)
	}
	return tx.Commit()
}

// GetVersion returns a single snapshot by id, or apperr.ErrNotFound.
func (s *Store) GetVersion(versionID string) (*models.NoteVersion, error) {
	row := s.conn.QueryRow(`
		SELECT id, note_id, title, content, tags, comment, saved_at
		FROM note_versions
		WHERE id = ?
	`, versionID)

	var (
		v        models.NoteVersion
		tagsJSON string
		savedRaw string
	)
	err := row.Scan(&v.ID, &v.NoteID, &v.Title, &v.Content, &tagsJSON, &v.Comment, &savedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get version: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &v.Tags); err != nil {
		v.Tags = nil
	}
	v.SavedAt = parseTime(savedRaw)
	return &v, nil
}

// ListVersions returns every version snapshot recorded for the note.
func (s *Store) ListVersions(noteID string) ([]models.NoteVersion, error) {
	rows, err := s.conn.Query(`
		SELECT id, note_id, title, content, tags, comment, saved_at
		FROM note_versions
		WHERE note_id = ?
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: list versions: %w", err)
	}
	defer rows.Close()

	var out []models.NoteVersion
	for rows.Next() {
		var (
			v        models.NoteVersion
			tagsJSON string
			savedRaw string
		)
		if err := rows.Scan(&v.ID, &v.NoteID, &v.Title, &v.Content, &tagsJSON, &v.Comment, &savedRaw); err != nil {
			return nil, fmt.Errorf("store: scan version: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &v.Tags); err != nil {
			v.Tags = nil
		}
		v.SavedAt = parseTime(savedRaw)
		out = append(out, v)
	}
	return out, rows.Err()
}
