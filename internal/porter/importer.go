package porter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/models"
)

// Sink is the part of the note service the importer needs: conflict checks
// and a durable-first save.
type Sink interface {
	HasNote(noteID string) bool
	SaveImported(note *models.Note) error
}

// Config controls import behavior.
type Config struct {
	Strategy           MergeStrategy
	PreserveTimestamps bool
}

// DefaultConfig matches the historical defaults: rename on collision and keep
// the source file's timestamps.
func DefaultConfig() Config {
	return Config{Strategy: MergeRename, PreserveTimestamps: true}
}

// Result aggregates one import run.
type Result struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer turns files into notes through a Sink.
type Importer struct {
	sink   Sink
	cfg    Config
	logger *slog.Logger
}

// NewImporter creates an importer writing into sink.
func NewImporter(sink Sink, cfg Config, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Strategy.Valid() {
		cfg.Strategy = MergeRename
	}
	return &Importer{sink: sink, cfg: cfg, logger: logger}
}

// ImportPath imports a single file or every supported file directly inside a
// directory. Per-file failures are logged and counted, never fatal.
func (im *Importer) ImportPath(path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("porter: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return im.importFile(path), nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return Result{}, fmt.Errorf("porter: read dir %s: %w", path, err)
	}
	var total Result
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		r := im.importFile(filepath.Join(path, e.Name()))
		total.Imported += r.Imported
		total.Skipped += r.Skipped
		total.Failed += r.Failed
	}
	return total, nil
}

func (im *Importer) importFile(path string) Result {
	recs, err := decodeFile(path)
	if err != nil {
		im.logger.Warn("import: decode failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return Result{Failed: 1}
	}

	var res Result
	for _, rec := range recs {
		switch err := im.importRecord(rec); {
		case err == errSkipped:
			res.Skipped++
		case err != nil:
			im.logger.Warn("import: save failed",
				slog.String("path", path), slog.String("error", err.Error()))
			res.Failed++
		default:
			res.Imported++
		}
	}
	return res
}

var errSkipped = fmt.Errorf("record skipped")

func (im *Importer) importRecord(rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}
	if !im.cfg.PreserveTimestamps {
		rec.Created = nil
		rec.Updated = nil
	}
	note := rec.ToNote()

	if im.sink.HasNote(note.ID) {
		switch im.cfg.Strategy {
		case MergeSkip:
			return errSkipped
		case MergeRename:
			note.ID = uuid.NewString()
		}
		// MergeOverwrite keeps the id and replaces the existing note.
	}
	return im.sink.SaveImported(note)
}

func decodeFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		rec, err := DecodeMarkdown(path, data)
		if err != nil {
			return nil, err
		}
		return []Record{rec}, nil
	case ".json":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("porter: unsupported file format: %s", path)
	}
}
