package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, root string, rebuild RebuildFunc) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, Options{Root: root, Output: "_inventory.md", Debounce: 20 * time.Millisecond}, logger, rebuild)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_NotebookChangeTriggersRebuild(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "001"), 0o755); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	startWatcher(t, root, func() error {
		calls.Add(1)
		return nil
	})

	_ = os.WriteFile(filepath.Join(root, "001", "index.ipynb"), []byte("{}"), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > 0
	}, "notebook change did not trigger a rebuild")
}

func TestWatch_NewReportDirTriggersRebuild(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, root, func() error {
		calls.Add(1)
		return nil
	})

	if err := os.MkdirAll(filepath.Join(root, "002"), 0o755); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > 0
	}, "new report directory did not trigger a rebuild")

	// The new directory is watched too.
	before := calls.Load()
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(root, "002", "index.ipynb"), []byte("{}"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > before
	}, "notebook in new directory did not trigger a rebuild")
}

func TestWatch_IgnoresOutputAndOtherFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "001"), 0o755); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	startWatcher(t, root, func() error {
		calls.Add(1)
		return nil
	})

	_ = os.WriteFile(filepath.Join(root, "_inventory.md"), []byte("table"), 0o644)
	_ = os.WriteFile(filepath.Join(root, "001", "notes.md"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(root, "conf.py"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(root, "bib"), []byte("@article{}"), 0o644)
	_ = os.Remove(filepath.Join(root, "bib"))

	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("rebuild called %d times, want 0", n)
	}
}

func TestWatch_RebuildErrorKeepsWatching(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "001"), 0o755); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	startWatcher(t, root, func() error {
		calls.Add(1)
		return errors.New("broken notebook")
	})

	nb := filepath.Join(root, "001", "index.ipynb")
	_ = os.WriteFile(nb, []byte("{}"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "first change did not trigger a rebuild")

	time.Sleep(100 * time.Millisecond)
	before := calls.Load()
	_ = os.WriteFile(nb, []byte("{ }"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > before
	}, "watcher stopped after a failed rebuild")
}

func TestWatch_RemovedReportDirTriggersRebuild(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "001"), 0o755); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	startWatcher(t, root, func() error {
		calls.Add(1)
		return nil
	})

	if err := os.RemoveAll(filepath.Join(root, "001")); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > 0
	}, "removed report directory did not trigger a rebuild")
}
