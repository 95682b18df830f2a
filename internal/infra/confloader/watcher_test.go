package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewgate.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 4)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	w.StartAsync()

	// Give the watcher goroutine a moment to start draining events.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "viewgate.yaml" {
			t.Errorf("changed path = %q", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change never observed")
	}
}

func TestWatcherStop(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	w.StartAsync()

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
}
