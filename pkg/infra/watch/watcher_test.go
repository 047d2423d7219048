// 指示: miu200521358
package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "avatar.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w, err := NewWatcher(10*time.Millisecond, target)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(target, []byte(`{"name": "A"}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want, _ := filepath.Abs(target)
	select {
	case name := <-w.Events:
		if name != want {
			t.Fatalf("event path mismatch: got=%s want=%s", name, want)
		}
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(DEFAULT_DEBOUNCE, filepath.Join(dir, "avatar.json"))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("events channel should be closed")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
}

func TestNewWatcherRequiresFiles(t *testing.T) {
	if _, err := NewWatcher(DEFAULT_DEBOUNCE); err == nil {
		t.Fatalf("watcher without files should fail")
	}
}
