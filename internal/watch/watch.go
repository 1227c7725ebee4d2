// Package watch reports debounced file changes under a project directory.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/metacount/internal/contract"
)

// EventType is the kind of file change observed.
type EventType int

// Event types reported to handlers.
const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns a lowercase name for the event type.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is a single file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// FileFilter reports whether a changed path is of interest.
type FileFilter func(path string) bool

// ChangeHandler receives one debounced batch of changes.
type ChangeHandler func(events []ChangeEvent) error

// SkipDirFunc reports whether a directory name should not be watched.
type SkipDirFunc func(name string) bool

// FileWatcher watches a directory tree and delivers debounced batches to handlers.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	skipDir   SkipDirFunc
	stopOnce  sync.Once
	mutex     sync.RWMutex
}

// NewFileWatcher creates a watcher whose batches are delayed by the given quiet period.
func NewFileWatcher(delay time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcher{
		watcher:   w,
		debouncer: NewDebouncer(delay),
		skipDir:   func(string) bool { return false },
	}, nil
}

// SetSkipDir sets the predicate used by AddRecursive and for directories created later.
func (fw *FileWatcher) SetSkipDir(skip SkipDirFunc) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	if skip != nil {
		fw.skipDir = skip
	}
}

// AddFilter adds a filter. A path must pass every filter to be reported.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a handler for debounced batches.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath watches a single directory.
func (fw *FileWatcher) AddPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	return fw.watcher.Add(filepath.Clean(path))
}

// AddRecursive watches root and every directory below it that is not skipped.
func (fw *FileWatcher) AddRecursive(root string) error {
	fw.mutex.RLock()
	skip := fw.skipDir
	fw.mutex.RUnlock()

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skip(d.Name()) {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

// Start begins delivering batches until ctx is done or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	go fw.debouncer.start(ctx)
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)
	return nil
}

// Stop releases the underlying watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		fw.debouncer.stop()
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			contract.LogWarn("File watcher error", err)
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	info, statErr := os.Stat(event.Name)

	// New folders (a fresh bundle, a new object) must be watched too
	if event.Has(fsnotify.Create) && statErr == nil && info.IsDir() {
		fw.mutex.RLock()
		skip := fw.skipDir(info.Name())
		fw.mutex.RUnlock()
		if !skip {
			if err := fw.AddRecursive(event.Name); err != nil {
				contract.LogWarn(fmt.Sprintf("Failed to watch %s", event.Name), err)
			}
		}
		return
	}
	if statErr == nil && info.IsDir() {
		return
	}

	if !fw.passes(event.Name) {
		return
	}

	changeEvent := ChangeEvent{
		Type: fw.mapEventType(event.Op),
		Path: event.Name,
	}
	if statErr == nil {
		changeEvent.ModTime = info.ModTime()
	}
	fw.debouncer.addEvent(changeEvent)
}

func (fw *FileWatcher) passes(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()
	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) mapEventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.debouncer.done:
			return
		case events, ok := <-fw.debouncer.output:
			if !ok {
				return
			}
			fw.mutex.RLock()
			handlers := append([]ChangeHandler(nil), fw.handlers...)
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					contract.LogWarn("Change handler failed", err)
				}
			}
		}
	}
}

// GlobFilter keeps paths whose slash-separated form relative to root matches pattern.
func GlobFilter(root, pattern string) FileFilter {
	return func(path string) bool {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		ok, err := doublestar.Match(pattern, contract.ToSlash(rel))
		return err == nil && ok
	}
}

// ExcludeFilter drops paths that match any of the user exclude patterns.
func ExcludeFilter(root string, excludes []string) FileFilter {
	return func(path string) bool {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		rel = contract.ToSlash(rel)
		if contract.ShouldIgnore(rel, excludes) {
			return false
		}
		// Excluded directories hide everything below them.
		parts := strings.Split(rel, "/")
		for i := 1; i < len(parts); i++ {
			if contract.ShouldIgnore(strings.Join(parts[:i], "/"), excludes) {
				return false
			}
		}
		return true
	}
}

// Debouncer collects events and emits them as one batch after a quiet period.
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	done    chan struct{}
	mutex   sync.Mutex
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		events: make(chan ChangeEvent, 100),
		output: make(chan []ChangeEvent, 10),
		done:   make(chan struct{}),
	}
}

// Output is the channel of debounced batches.
func (d *Debouncer) Output() <-chan []ChangeEvent {
	return d.output
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case event := <-d.events:
			d.mutex.Lock()
			d.pending = append(d.pending, event)
			if d.timer != nil {
				d.timer.Stop()
			}
			d.timer = time.AfterFunc(d.delay, d.flush)
			d.mutex.Unlock()
		}
	}
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.done:
	default:
		close(d.done)
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	select {
	case d.events <- event:
	case <-d.done:
	}
}

// flush emits pending events with one entry per path, keeping the latest.
func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	latest := make(map[string]ChangeEvent, len(d.pending))
	for _, event := range d.pending {
		latest[event.Path] = event
	}
	batch := make([]ChangeEvent, 0, len(latest))
	for _, event := range latest {
		batch = append(batch, event)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	d.pending = d.pending[:0]

	select {
	case d.output <- batch:
	default:
		// A batch is already waiting; the next refresh picks these up too
	}
}
