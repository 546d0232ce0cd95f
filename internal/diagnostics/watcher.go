package diagnostics

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/problemnav/internal/logging"
)

// Watcher reloads report files through a Loader when they change.
//
// Directories are watched rather than the files themselves so reports
// replaced by rename (as most tools write them) keep being tracked.
type Watcher struct {
	mu sync.Mutex

	loader  *Loader
	watcher *fsnotify.Watcher
	logger  *logging.Logger

	paths map[string]bool
	dirs  map[string]bool

	onReload func(path string, err error)
	errors   chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadHandler sets a callback run after every reload attempt.
func WithReloadHandler(fn func(path string, err error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher and starts its event loop.
func NewWatcher(loader *Loader, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		loader:  loader,
		watcher: fsw,
		logger:  logging.Nop(),
		paths:   make(map[string]bool),
		dirs:    make(map[string]bool),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watcher")

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching the report at path. It does not load the report.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.paths[abs] = true
	return nil
}

// Errors returns reload errors. Errors are dropped when nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
			w.report(err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(ev.Name)
	w.mu.Lock()
	tracked := w.paths[path]
	w.mu.Unlock()
	if !tracked {
		return
	}

	err := w.loader.Load(path)
	if err != nil {
		w.logger.WithField("report", path).Warn("reload failed: %v", err)
		w.report(err)
	} else {
		w.logger.WithField("report", path).Debug("reloaded")
	}

	if w.onReload != nil {
		w.onReload(path, err)
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
