package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkpot-app/inkpot/internal/models"
)

// Contract is the interface for durable note persistence. Consumers should
// depend on this interface rather than the concrete *Store type to
// facilitate testing with mocks.
type Contract interface {
	SaveNote(note *models.Note) error
	SaveAll(notes []*models.Note) error
	LoadAll() (*models.Notebook, error)
	MoveToTrash(noteID string) error
	RestoreFromTrash(noteID string) (*models.Note, error)
	DeletePermanently(noteID string) error
	ListTrash() ([]models.TrashEntry, error)
	EmptyTrash() (int, error)
	SaveVersion(v *models.NoteVersion) error
	DeleteVersion(versionID string) error
	GetVersion(versionID string) (*models.NoteVersion, error)
	ListVersions(noteID string) ([]models.NoteVersion, error)
	Close() error
}

// Verify *Store satisfies Contract at compile time.
var _ Contract = (*Store)(nil)

func upsertNote(tx *sql.Tx, note *models.Note, deleted bool) error {
	tagsJSON, _ := json.Marshal(note.TagList())
	_, err := tx.Exec(`
		INSERT INTO notes (id, title, content, tags, created_at, updated_at, is_pinned, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			content    = excluded.content,
			tags       = excluded.tags,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_pinned  = excluded.is_pinned,
			is_deleted = excluded.is_deleted
	`, note.ID, note.Title, note.Content, string(tagsJSON),
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
		boolToInt(note.Pinned), boolToInt(deleted))
	if err != nil {
		return fmt.Errorf("store: upsert note: %w", err)
	}
	return nil
}

// SaveNote upserts a single note in one transaction.
func (s *Store) SaveNote(note *models.Note) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := upsertNote(tx, note, false); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveAll upserts every note of the snapshot in a single transaction,
// all-or-nothing.
func (s *Store) SaveAll(notes []*models.Note) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, note := range notes {
		if err := upsertNote(tx, note, false); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadAll loads every row whose soft-delete flag is clear and builds a fresh
// notebook. Tag counts are re-derived from the rows, never read from disk.
func (s *Store) LoadAll() (*models.Notebook, error) {
	rows, err := s.conn.Query(`
		SELECT id, title, content, tags, created_at, updated_at, is_pinned
		FROM notes
		WHERE is_deleted = 0
	`)
	if err != nil {
		return nil, fmt.Errorf("store: load all: %w", err)
	}
	defer rows.Close()

	nb := models.NewNotebook()
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		nb.InsertOrReplace(note)
	}
	return nb, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		n          models.Note
		tagsJSON   string
		createdRaw string
		updatedRaw string
		pinned     int
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &tagsJSON, &createdRaw, &updatedRaw, &pinned); err != nil {
		return nil, fmt.Errorf("store: scan note: %w", err)
	}
	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		tags = nil
	}
	n.Tags = models.TagSet(tags)
	n.CreatedAt = parseTime(createdRaw)
	n.UpdatedAt = parseTime(updatedRaw)
	n.Pinned = pinned != 0
	return &n, nil
}

// timeLayout is RFC 3339 with a fixed-width fraction so that the TEXT columns
// sort in time order under SQLite's lexicographic ORDER BY.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
