package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"arena.yaml", ChangeArena, true},
		{"overrides.yml", ChangeArena, true},
		{"classes.yaml", ChangeClasses, true},
		{"/cfg/Classes.YML", ChangeClasses, true},
		{"wander.tengo", ChangeScript, true},
		{"notes.txt", 0, false},
		{"arena.yaml~", 0, false},
	}
	for _, tc := range cases {
		kind, ok := Classify(tc.path)
		if ok != tc.ok || (ok && kind != tc.kind) {
			t.Errorf("Classify(%q) = %v, %v; want %v, %v", tc.path, kind, ok, tc.kind, tc.ok)
		}
	}
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case ch := <-w.Events:
		return ch
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
	return Change{}
}

func TestWatcherReportsTypedChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	defer w.Close()

	classes := filepath.Join(dir, ClassesFile)
	script := filepath.Join(dir, "wander.tengo")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(classes, []byte("classes: []\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(script, []byte("weights := func(prev) { return {} }\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Both paths land in one quiet window and come out in path order.
	if got := waitChange(t, w); got != (Change{Path: classes, Kind: ChangeClasses}) {
		t.Fatalf("first change = %+v", got)
	}
	if got := waitChange(t, w); got != (Change{Path: script, Kind: ChangeScript}) {
		t.Fatalf("second change = %+v", got)
	}
	select {
	case extra := <-w.Events:
		t.Fatalf("repeated writes were not coalesced: %+v", extra)
	case <-time.After(3 * watchDebounce):
	}
}
