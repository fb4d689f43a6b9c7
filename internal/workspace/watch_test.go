package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"codebrush/internal/testutil"
)

// TestWatchDebouncesSaves verifies a burst of writes triggers one callback.
func TestWatchDebouncesSaves(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	path, err := ws.Path("q1")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	ctx, cancel := context.WithCancel(testutil.Context(t, 10*time.Second))
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- ws.Watch(ctx, "q1", 100*time.Millisecond, func() { calls.Add(1) })
	}()

	// The watcher is ready once the component directory exists.
	testutil.Eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		_, err := os.Stat(filepath.Dir(path))
		return err == nil
	}, "component directory created")
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("export const Counter = () => null;\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "Other.tsx"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	testutil.Eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "change callback")
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one debounced callback, got %d", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
}

// TestWatchUnknownQuestion verifies unregistered questions are rejected.
func TestWatchUnknownQuestion(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	if err := ws.Watch(context.Background(), "q9", 0, func() {}); err == nil {
		t.Fatalf("expected unknown question error")
	}
}

// TestRelevantEvents verifies which events count as content changes.
func TestRelevantEvents(t *testing.T) {
	path := filepath.Join("/ws", "src", "components", "Counter.tsx")
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join("/ws", "src", "components", "Toggle.tsx"), Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: filepath.Join("/ws", "src", "components", ".Counter.tsx.swp"), Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev, path); got != tc.want {
			t.Fatalf("%s %s: expected %v, got %v", tc.ev.Name, tc.ev.Op, tc.want, got)
		}
	}
}
