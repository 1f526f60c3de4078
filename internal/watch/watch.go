// Package watch re-runs an action when a machine file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last write before the
// action runs.
const DefaultDebounce = 200 * time.Millisecond

// Config configures File.
type Config struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Logger is optional.
	Logger *charmlog.Logger
}

// File calls onChange after every burst of writes to path until ctx is
// done. The parent directory is watched so that editors replacing the file
// through a rename are still seen. Errors from onChange are logged and do
// not stop the watch.
func File(ctx context.Context, path string, cfg Config, onChange func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = charmlog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("watching machine file", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "err", err)
		case <-timer.C:
			logger.Debug("machine file changed", "path", abs)
			if err := onChange(); err != nil {
				logger.Error("rerun failed", "err", err)
			}
		}
	}
}
