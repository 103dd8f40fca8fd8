package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appErrors "treekit/internal/errors"
	"treekit/internal/tree"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 250 * time.Millisecond

// ErrSourceRemoved is reported when the watched file disappears.
var ErrSourceRemoved = errors.New("watched source was removed")

// Update is one reload result delivered by a Watcher.
type Update struct {
	Records []tree.RawNode
	Err     error
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets the quiet period before a reload.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger routes watcher diagnostics to l.
func WithWatchLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher reloads a source whenever its file changes and delivers the result
// on Updates. Only the newest pending update is kept.
type Watcher struct {
	spec     Spec
	debounce time.Duration
	logger   *log.Logger

	fsw     *fsnotify.Watcher
	updates chan Update

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWatcher prepares a watcher for spec. Call Start to begin watching.
func NewWatcher(spec Spec, opts ...WatcherOption) (*Watcher, error) {
	spec, err := spec.resolve()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(spec.Path)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeWatchFailed, fmt.Sprintf("resolve %s: %v", spec.Path, err), err)
	}
	spec.Path = abs

	w := &Watcher{
		spec:     spec,
		debounce: DefaultWatchDebounce,
		logger:   log.New(io.Discard, "", 0),
		updates:  make(chan Update, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Updates delivers reload results.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.spec.Path
}

// Start watches the directory holding the source; editors that save by
// rename replace the file itself.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return appErrors.New(appErrors.CodeWatchFailed, fmt.Sprintf("create watcher: %v", err), err)
	}
	if err := fsw.Add(filepath.Dir(w.spec.Path)); err != nil {
		_ = fsw.Close()
		return appErrors.New(appErrors.CodeWatchFailed, fmt.Sprintf("watch %s: %v", w.spec.Path, err), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.started = true

	w.wg.Add(1)
	go w.loop(ctx, fsw)
	w.logger.Printf("watching %s", w.spec.Path)
	return nil
}

// Stop ends watching. Updates is not closed; a pending update stays readable.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.cancel()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	_ = fsw.Close()
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0 && filepath.Base(event.Name) == filepath.Base(w.spec.Path):
				w.publish(Update{Err: appErrors.New(appErrors.CodeWatchFailed, ErrSourceRemoved.Error(), ErrSourceRemoved)})
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.schedule(ctx)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watch error: %v", err)
			w.publish(Update{Err: appErrors.New(appErrors.CodeWatchFailed, err.Error(), err)})
		}
	}
}

// matches reports whether name is the source file or, for SQLite, one of its
// -wal/-shm companions.
func (w *Watcher) matches(name string) bool {
	base := filepath.Base(name)
	target := filepath.Base(w.spec.Path)
	if base == target {
		return true
	}
	return w.spec.Format == FormatSQLite && strings.HasPrefix(base, target+"-")
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	records, err := Load(ctx, w.spec)
	if err != nil {
		w.logger.Printf("reload %s: %v", w.spec.Path, err)
	} else {
		w.logger.Printf("reloaded %s: %d records", w.spec.Path, len(records))
	}
	w.publish(Update{Records: records, Err: err})
}

// publish replaces any unread update with u.
func (w *Watcher) publish(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
