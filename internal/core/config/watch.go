package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives editors a moment to finish writing before reloading
const settleDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes the result to fn until
// ctx is done. The parent directory is watched so editors that save by
// renaming a temp file are still seen. A reload that fails to parse is
// reported through fn with a nil config.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if shouldReload(event, path) {
				pending = time.After(settleDelay)
			}

		case <-pending:
			pending = nil
			fn(LoadFile(path))

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			fn(nil, fmt.Errorf("watch %s: %w", path, err))
		}
	}
}

// shouldReload determines if the event touches the config file
func shouldReload(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename ||
		event.Op&fsnotify.Remove == fsnotify.Remove
}
