// ABOUTME: Tests for the fsnotify config watcher and WatchFile reload
// ABOUTME: Validates change detection, debounce, unrelated files, stop behaviour and leaks

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_DetectsChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "unpack.yaml")
	if err := os.WriteFile(path, []byte("debug:\n  enabled: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var called atomic.Int32
	w, err := NewWatcher(path, func() { called.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	w.SetDebounce(20 * time.Millisecond)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("debug:\n  enabled: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, func() bool { return called.Load() > 0 }) {
		t.Error("expected onChange to be called after file modification")
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unpack.yaml")

	var called atomic.Int32
	w, err := NewWatcher(path, func() { called.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	w.SetDebounce(300 * time.Millisecond)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := range 5 {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, func() bool { return called.Load() > 0 }) {
		t.Fatal("expected onChange after burst")
	}
	time.Sleep(400 * time.Millisecond)
	if n := called.Load(); n != 1 {
		t.Errorf("onChange called %d times; want 1 for a single burst", n)
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unpack.yaml")

	var called atomic.Int32
	w, err := NewWatcher(path, func() { called.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	w.SetDebounce(10 * time.Millisecond)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	if n := called.Load(); n != 0 {
		t.Errorf("onChange called %d times for an unrelated file", n)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "c.yaml"), func() {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_ConcurrentStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "c.yaml"), func() {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Stop()
		}()
	}
	wg.Wait()
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "c.yaml"), func() {})
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
}

func TestWatcher_ForceCheck(t *testing.T) {
	var called atomic.Int32
	w, err := NewWatcher(filepath.Join(t.TempDir(), "c.yaml"), func() { called.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.ForceCheck()
	if called.Load() != 1 {
		t.Errorf("ForceCheck called onChange %d times; want 1", called.Load())
	}
}

func TestWatchFile_ReloadsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unpack.yaml")
	if err := os.WriteFile(path, []byte("questionCount:\n  min: 2\n  max: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := MustNewStore(DefaultBackend())
	w, err := WatchFile(context.Background(), path, store)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("questionCount:\n  min: 1\n  max: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ok := waitFor(t, func() bool {
		qc := store.Load().Backend.QuestionCount
		return qc.Min == 1 && qc.Max == 5
	})
	if !ok {
		t.Fatalf("store not reloaded: %+v", store.Load().Backend.QuestionCount)
	}

	// An invalid file keeps the last good snapshot.
	if err := os.WriteFile(path, []byte("clarificationRules:\n  decisionPatterns: ['(']\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)
	if qc := store.Load().Backend.QuestionCount; qc.Min != 1 || qc.Max != 5 {
		t.Errorf("invalid file replaced snapshot: %+v", qc)
	}
}
