package porter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ImportedCallback is called after a watcher-driven import with the run's
// counts.
type ImportedCallback func(res Result)

// Watch monitors an inbox directory with fsnotify and imports every supported
// file dropped into it until ctx is cancelled. Writes are debounced so a file
// still being copied is only picked up once it goes quiet. Successfully
// imported files are removed from the inbox.
func Watch(ctx context.Context, im *Importer, inbox string, logger *slog.Logger, cb ImportedCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(inbox); err != nil {
		return err
	}
	logger.Info("inbox watcher: started", slog.String("dir", inbox))

	// pending tracks files seen but not yet quiet.
	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleSettle := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(500 * time.Millisecond)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(500 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("inbox watcher: stopped")
			return nil

		case <-settleCh:
			for path := range pending {
				delete(pending, path)
				res, err := im.ImportPath(path)
				if err != nil {
					logger.Warn("inbox watcher: import failed",
						slog.String("path", path), slog.String("error", err.Error()))
					continue
				}
				logger.Info("inbox watcher: imported",
					slog.String("path", path),
					slog.Int("imported", res.Imported),
					slog.Int("skipped", res.Skipped),
					slog.Int("failed", res.Failed))
				if res.Failed == 0 {
					if rmErr := os.Remove(path); rmErr != nil {
						logger.Warn("inbox watcher: cleanup failed",
							slog.String("path", path), slog.String("error", rmErr.Error()))
					}
				}
				if cb != nil {
					cb(res)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !supportedExt(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			scheduleSettle()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func supportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".json":
		return true
	}
	return false
}
