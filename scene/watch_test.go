package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "plan.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(target, []byte(`{"entities": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := WatchWithDebounce(target, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	select {
	case name := <-w.Events:
		t.Fatalf("unexpected event for %s", name)
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte(`{"entities": [{"render": {"x1":0,"y1":0,"x2":1,"y2":1}}]}`), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}
	select {
	case name := <-w.Events:
		if name != w.Path() {
			t.Fatalf("expected %s, got %s", w.Path(), name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event after writing the watched file")
	}
	select {
	case name := <-w.Events:
		t.Fatalf("burst should collapse into one event, got another for %s", name)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "plan.yaml")
	if err := os.WriteFile(target, []byte("entities: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := Watch(target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("Events should be closed")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	if _, err := Watch(filepath.Join(t.TempDir(), "nope", "plan.json")); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}
