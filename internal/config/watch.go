package config

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a path must stay quiet before its change is
// reported. Editors often write a file several times per save.
const watchDebounce = 100 * time.Millisecond

// ChangeKind says which part of the configuration an edit touched.
type ChangeKind int

const (
	// ChangeArena is arena.yaml or any other yaml document. It only takes
	// effect in a new run.
	ChangeArena ChangeKind = iota
	// ChangeClasses is the class table.
	ChangeClasses
	// ChangeScript is a tengo wander script.
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeArena:
		return "arena"
	case ChangeClasses:
		return "classes"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

type Change struct {
	Path string
	Kind ChangeKind
}

// Classify maps a path to the kind of change an edit to it makes. Files that
// are not configuration report false.
func Classify(path string) (ChangeKind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tengo":
		return ChangeScript, true
	case ".yaml", ".yml":
		base := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ext)
		if base == strings.TrimSuffix(ClassesFile, filepath.Ext(ClassesFile)) {
			return ChangeClasses, true
		}
		return ChangeArena, true
	}
	return 0, false
}

// Watcher coalesces filesystem events under the watched dirs into Changes.
// Every path edited during a quiet window is reported once, in path order.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		watcher: fw,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	pending := make(map[string]Change)
	quiet := time.NewTimer(watchDebounce)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind, ok := Classify(ev.Name)
			if !ok {
				continue
			}
			pending[ev.Name] = Change{Path: ev.Name, Kind: kind}
			quiet.Reset(watchDebounce)
		case <-quiet.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			slices.Sort(paths)
			for _, path := range paths {
				select {
				case w.Events <- pending[path]:
				case <-w.closeCh:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
