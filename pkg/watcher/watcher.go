// Package watcher reports changes to the file or directory tree a tv session
// was loaded from, so the tree can be rebuilt.
//
// fsnotify is used when available; network filesystems, fsnotify failures
// and TV_FORCE_POLL fall back to polling with os.Stat.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/treeview/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrPathRemoved    = errors.New("watched path was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithOnChange sets the callback invoked when the path changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// WithIgnore skips entries with these base names when watching a directory.
func WithIgnore(names ...string) Option {
	return func(w *Watcher) {
		w.ignore = append(w.ignore, names...)
	}
}

// snapshot summarizes the watched path for polling.
type snapshot struct {
	exists  bool
	count   int
	size    int64
	modTime time.Time
}

func (s snapshot) equal(o snapshot) bool {
	return s.exists == o.exists && s.count == o.count && s.size == o.size && s.modTime.Equal(o.modTime)
}

// Watcher monitors a file or a directory tree.
type Watcher struct {
	path             string
	isDir            bool
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool
	ignore           []string
	fsType           FilesystemType

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	last        snapshot

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for path. Whether path is a directory is decided
// here; a path that does not exist yet is watched as a file.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	if info, err := os.Stat(absPath); err == nil {
		w.isDir = info.IsDir()
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)

	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.useFallback = false

	w.fsType = detectFilesystemTypeFunc(w.path)
	forcePoll := w.forcePoll || envBool("TV_FORCE_POLL")
	if forcePoll || isRemoteFilesystem(w.fsType) {
		w.useFallback = true
	}

	if _, err := os.Stat(w.path); err != nil && os.IsPermission(err) {
		w.cancel()
		return ErrPermission
	}
	w.last = w.snapshot()

	if !w.useFallback {
		if fsw, err := w.newFsnotify(); err == nil {
			w.fsWatcher = fsw
			go w.watchFsnotify()
		} else {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.useFallback = true
		}
	}

	if w.useFallback {
		go w.watchPolling()
	}

	debug.Log("watcher: started on %s (dir=%v fs=%s polling=%v)", w.path, w.isDir, w.fsType, w.useFallback)
	w.started = true
	return nil
}

// newFsnotify registers the directories to watch. A file is watched through
// its parent directory so atomic saves (write temp file, rename) are seen.
func (w *Watcher) newFsnotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if !w.isDir {
		if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			fsw.Close()
			return nil, err
		}
		return fsw, nil
	}

	if err := w.addTree(fsw, w.path); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

// addTree adds dir and every directory below it that is not ignored.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.ignored(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}

func (w *Watcher) ignored(name string) bool {
	return slices.Contains(w.ignore, name)
}

// Stop stops watching.
// The change channel is left open: a receiver blocked on Changed would
// otherwise wake up immediately and treat the close as a change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// IsDir reports whether a directory tree is being watched.
func (w *Watcher) IsDir() bool {
	return w.isDir
}

// Changed returns a channel that receives when the path changes.
// This is an alternative to using the OnChange callback.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the best-effort filesystem classification for the watched path.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval used when polling mode is active.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify() {
	// Capture channel references to avoid racing Stop() setting fsWatcher to nil
	w.mu.RLock()
	fsw := w.fsWatcher
	ctx := w.ctx
	w.mu.RUnlock()
	if fsw == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !w.isDir {
		// Only care about events for our specific file
		if filepath.Base(event.Name) != filepath.Base(w.path) {
			return
		}
		switch {
		case event.Op&fsnotify.Remove != 0:
			w.onError(ErrPathRemoved)
		case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
			w.debouncer.Trigger(w.notifyChange)
		}
		return
	}

	if w.ignored(filepath.Base(event.Name)) || event.Op == fsnotify.Chmod {
		return
	}
	if event.Name == w.path && event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.onError(ErrPathRemoved)
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, event.Name); err != nil {
				debug.Log("watcher: cannot watch %s: %v", event.Name, err)
			}
		}
	}
	w.debouncer.Trigger(w.notifyChange)
}

// watchPolling monitors using periodic stat checks.
func (w *Watcher) watchPolling() {
	w.mu.RLock()
	ctx := w.ctx
	interval := w.pollInterval
	w.mu.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := os.Stat(w.path); err != nil && os.IsPermission(err) {
				w.onError(ErrPermission)
				continue
			}

			cur := w.snapshot()

			w.mu.Lock()
			prev := w.last
			w.last = cur
			w.mu.Unlock()

			switch {
			case prev.exists && !cur.exists:
				w.onError(ErrPathRemoved)
			case !cur.equal(prev):
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// snapshot stats the watched path; for a directory it folds every entry
// below it into a count, total size and latest modification time.
func (w *Watcher) snapshot() snapshot {
	info, err := os.Stat(w.path)
	if err != nil {
		return snapshot{}
	}
	s := snapshot{exists: true, count: 1, size: info.Size(), modTime: info.ModTime()}
	if !info.IsDir() {
		return s
	}

	_ = filepath.WalkDir(w.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == w.path {
			return nil
		}
		if w.ignored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		s.count++
		s.size += fi.Size()
		if fi.ModTime().After(s.modTime) {
			s.modTime = fi.ModTime()
		}
		return nil
	})
	return s
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	// Don't notify after Stop(); the window between the check and the
	// callback is harmless because reloads are idempotent.
	if !started {
		return
	}

	w.onChange()

	// Non-blocking send to change channel
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
