// Package watch reports edits to a model file so that the hierarchy can be
// rebuilt as the file changes.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when NewWatcher is given a non-positive debounce.
const DefaultDebounce = 300 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // file written or recreated
	ChangeRemoved                    // file deleted or renamed away
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one settled edit to the watched file.
type Change struct {
	Kind ChangeKind
	File string
	At   time.Time
}

// Watcher monitors a single file. It watches the parent directory so that
// editors which save by rename are still seen.
type Watcher struct {
	File    string
	Changes <-chan Change
	Errors  <-chan error

	changes  chan Change
	errs     chan error
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for path. Bursts of events closer together
// than debounce collapse into one Change.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	ch := make(chan Change, 16)
	errs := make(chan error, 4)
	return &Watcher{
		File:     abs,
		Changes:  ch,
		Errors:   errs,
		changes:  ch,
		errs:     errs,
		done:     make(chan struct{}),
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return fmt.Errorf("watch %s: %w", w.File, err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and both channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
	close(w.errs)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending bool
		kind    ChangeKind
		last    time.Time
	)
	tick := max(w.debounce/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.emit(kind)
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				kind = ChangeModified
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				kind = ChangeRemoved
			default:
				continue
			}
			pending = true
			last = time.Now()

		case now := <-ticker.C:
			if pending && now.Sub(last) >= w.debounce {
				w.emit(kind)
				pending = false
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) emit(kind ChangeKind) {
	w.changes <- Change{Kind: kind, File: w.File, At: time.Now()}
}
