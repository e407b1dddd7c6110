// Package watch notifies callers when schedule files change on disk.
//
// Editors commonly save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the file itself. The watcher
// therefore watches the parent directory and filters events by file name.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a file must observe before a change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	// ChangeModified means the file exists after the change.
	ChangeModified ChangeKind = iota
	// ChangeRemoved means the file no longer exists.
	ChangeRemoved
)

// String returns a lowercase label for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change represents a detected change to a watched file.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors a set of files for changes using fsnotify.
type Watcher struct {
	Changes <-chan Change // Read-only external channel

	files    map[string]bool
	dirs     []string
	debounce time.Duration
	changes  chan Change
	stop     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	started  bool
}

// New creates a watcher for the given files. Files do not need to exist yet,
// but their directories do.
func New(files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}
	set := make(map[string]bool, len(files))
	seenDir := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", f, err)
		}
		set[abs] = true
		if dir := filepath.Dir(abs); !seenDir[dir] {
			seenDir[dir] = true
			dirs = append(dirs, dir)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Changes:  ch,
		files:    set,
		dirs:     dirs,
		debounce: DefaultDebounce,
		changes:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// SetDebounce overrides the quiet period. It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Start begins watching. Changes are delivered on the Changes channel.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	w.started = true
	go w.loop()
	return nil
}

// Close releases a watcher that was never started, or whose Start failed,
// and closes the Changes channel. On a started watcher it is Stop.
func (w *Watcher) Close() error {
	if w.started {
		w.Stop()
		return nil
	}
	err := w.watcher.Close()
	close(w.changes)
	return err
}

// Stop closes the watcher and the Changes channel. Pending changes that have
// not settled are dropped.
func (w *Watcher) Stop() {
	if !w.started {
		_ = w.Close()
		return
	}
	close(w.stop)
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) < w.debounce {
					continue
				}
				delete(pending, file)
				if !w.emit(file) {
					return
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

// emit reports the settled state of file. It returns false when the watcher
// is stopping.
func (w *Watcher) emit(file string) bool {
	kind := ChangeModified
	if _, err := os.Stat(file); err != nil {
		kind = ChangeRemoved
	}
	select {
	case w.changes <- Change{Kind: kind, File: file}:
		return true
	case <-w.stop:
		return false
	}
}
