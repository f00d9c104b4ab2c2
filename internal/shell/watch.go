package shell

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reports changes to the configuration file. It never acts on its
// own: Poll drains pending events between commands and calls reload at most once.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	reload  func() error
	logger  *slog.Logger
}

// NewConfigWatcher watches the file at path. The containing directory is
// watched so that editors replacing the file are still noticed.
func NewConfigWatcher(path string, reload func() error, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path '%s': %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch '%s': %w", filepath.Dir(abs), err)
	}

	logger.Debug("Watching config file", "path", abs)
	return &ConfigWatcher{
		watcher: watcher,
		path:    abs,
		reload:  reload,
		logger:  logger,
	}, nil
}

// Poll drains every pending event without blocking. If any of them touched the
// config file, reload is called once. It reports whether a reload succeeded.
func (w *ConfigWatcher) Poll() bool {
	events, errs := w.watcher.Events, w.watcher.Errors
	changed := false

	for events != nil || errs != nil {
		select {
		case event, ok := <-events:
			if !ok {
				w.logger.Warn("Config watcher event channel closed unexpectedly.")
				events = nil
				continue
			}
			if w.relevant(event) {
				w.logger.Debug("Config watcher event received", "event", event.String())
				changed = true
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Error("Config watcher error encountered, attempting to continue", "error", err)
		default:
			events, errs = nil, nil
		}
	}

	if !changed {
		return false
	}
	if err := w.reload(); err != nil {
		w.logger.Error("Failed to reload configuration, keeping the previous settings", "path", w.path, "error", err)
		return false
	}
	w.logger.Info("Configuration reloaded", "path", w.path)
	return true
}

// Close stops watching.
func (w *ConfigWatcher) Close() error {
	return w.watcher.Close()
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
