package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// DefaultDebounceDelay coalesces bursts of file events into one reload.
const DefaultDebounceDelay = 100 * time.Millisecond

// DocumentCallback is called with each valid document read after a change.
type DocumentCallback func(*RouteDocument)

// ErrorCallback is called when a changed document cannot be loaded or is invalid.
type ErrorCallback func(error)

// Watcher watches a route document and reports valid revisions.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      DocumentCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration

	mu        sync.RWMutex
	lastDoc   *RouteDocument
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		if delay > 0 {
			w.debounceDelay = delay
		}
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a watcher for the document at path.
func NewWatcher(path string, callback DocumentCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: DefaultDebounceDelay,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the current document and begins watching. The directory is
// watched so that editors replacing the file by rename are noticed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	doc, err := LoadAndValidate(w.path)
	if err != nil {
		return err
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastDoc = doc
	w.running = true
	w.mu.Unlock()

	w.logger.Info("started watching route document",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastDocument returns the last valid document.
func (w *Watcher) LastDocument() *RouteDocument {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastDoc
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("route document watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("route document watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounceDelay)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("route document watcher error", observability.Error(err))
			w.reportError(err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	w.logger.Debug("route document changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)
	return true
}

func (w *Watcher) reload() {
	if _, err := w.ForceReload(); err != nil {
		w.logger.Error("failed to reload route document",
			observability.String("path", w.path),
			observability.Error(err),
		)
		w.reportError(err)
	}
}

// ForceReload reads and validates the document now and, when valid, passes
// it to the callback.
func (w *Watcher) ForceReload() (*RouteDocument, error) {
	doc, err := LoadAndValidate(w.path)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.lastDoc = doc
	w.mu.Unlock()

	w.logger.Info("route document reloaded",
		observability.String("path", w.path),
		observability.String("name", doc.Metadata.Name),
	)

	if w.callback != nil {
		w.callback(doc)
	}
	return doc, nil
}

func (w *Watcher) reportError(err error) {
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}
