package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	w := New(root, filepath.Join(root, "public"), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changes <- struct{}{} })
	}()

	// give the watcher time to register the tree
	time.Sleep(100 * time.Millisecond)

	for i := range 5 {
		name := filepath.Join(root, "page.md")
		if err := os.WriteFile(name, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a change notification")
	}

	// the burst collapses into one notification
	select {
	case <-changes:
		t.Error("Expected a single notification for a burst of writes")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresSkipDir(t *testing.T) {
	root := t.TempDir()
	skip := filepath.Join(root, "public")
	if err := os.MkdirAll(skip, 0755); err != nil {
		t.Fatal(err)
	}

	w := New(root, skip, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 10)
	go func() {
		_ = w.Run(ctx, func() { changes <- struct{}{} })
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(skip, "out.html"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changes:
		t.Error("Writes to the skipped directory should not notify")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRunMissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), "", time.Millisecond)
	if err := w.Run(context.Background(), func() {}); err == nil {
		t.Error("Expected error for missing root")
	}
}

func TestIgnored(t *testing.T) {
	w := New("/src", "/src/public", time.Second)

	tests := []struct {
		path string
		want bool
	}{
		{"/src/public", true},
		{"/src/public/a.html", true},
		{"/src/publication.md", false},
		{"/src/a.md", false},
	}

	for _, tt := range tests {
		if got := w.ignored(tt.path); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
