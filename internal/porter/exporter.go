package porter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkpot-app/inkpot/internal/models"
)

// Format selects the export encoding.
type Format string

const (
	// FormatMarkdown writes one .md file per note.
	FormatMarkdown Format = "markdown"
	// FormatJSON writes a single JSON array (full backup).
	FormatJSON Format = "json"
)

// ExportConfig controls export behavior.
type ExportConfig struct {
	Format      Format
	Frontmatter bool
}

// DefaultExportConfig exports Markdown with front matter.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{Format: FormatMarkdown, Frontmatter: true}
}

// ExportNote writes a single note to path in the configured format.
func ExportNote(note *models.Note, path string, cfg ExportConfig) error {
	rec := FromNote(note)

	var (
		data []byte
		err  error
	)
	switch cfg.Format {
	case FormatJSON:
		data, err = EncodeJSON([]Record{rec})
	default:
		data, err = EncodeMarkdown(rec, cfg.Frontmatter)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("porter: write %s: %w", path, err)
	}
	return nil
}

// ExportAll writes every note into dir: one file per note for Markdown, a
// single notes.json for JSON.
func ExportAll(notes []*models.Note, dir string, cfg ExportConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("porter: create dir %s: %w", dir, err)
	}

	if cfg.Format == FormatJSON {
		recs := make([]Record, len(notes))
		for i, n := range notes {
			recs[i] = FromNote(n)
		}
		data, err := EncodeJSON(recs)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, "notes.json"), data, 0o644)
	}

	for _, n := range notes {
		path := filepath.Join(dir, exportFileName(n))
		if err := ExportNote(n, path, cfg); err != nil {
			return err
		}
	}
	return nil
}

// exportFileName builds a stable, filesystem-safe name from the note title
// and a short id suffix to keep same-titled notes apart.
func exportFileName(n *models.Note) string {
	title := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, n.Title)
	title = strings.TrimSpace(title)
	if title == "" {
		title = "untitled"
	}
	suffix := n.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s-%s.md", title, suffix)
}
