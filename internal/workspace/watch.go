package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor emits on save.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls onChange each time the component file for questionID settles
// after a change, and blocks until ctx is done.
//
// The component directory is watched rather than the file so that editors
// which save by rename are still seen. onChange runs on the watching goroutine;
// changes made while it runs trigger one more call.
func (w *Workspace) Watch(ctx context.Context, questionID string, debounce time.Duration, onChange func()) error {
	path, err := w.Path(questionID)
	if err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create component directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				continue
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}

// relevant reports whether ev changed the content of path.
func relevant(ev fsnotify.Event, path string) bool {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Op&fsnotify.Chmod != fsnotify.Chmod
}
