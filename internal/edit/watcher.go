package edit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file for modification and delivers
// coalesced change signals. It watches the file's directory rather
// than the file itself: editors commonly save via write-to-temp-then-
// rename, which replaces the inode and would silently detach a watch
// on the file.
//
// Bursts of saves inside the debounce window collapse into a single
// signal, and at most one signal is ever pending, so a consumer that
// is mid-cycle sees one follow-up signal regardless of how many saves
// arrived meanwhile.
type FileWatcher struct {
	target   string // cleaned absolute path of the watched file
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	events chan struct{}
	errs   chan error

	mu    sync.Mutex
	timer *time.Timer
}

// NewFileWatcher creates a watcher for path. Start must be called
// before any events are delivered.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		target:   abs,
		debounce: debounce,
		fsw:      fsw,
		logger:   logger,
		events:   make(chan struct{}, 1),
		errs:     make(chan error, 1),
	}, nil
}

// Events returns the coalesced change signal channel.
func (w *FileWatcher) Events() <-chan struct{} { return w.events }

// Errors returns the channel of unrecoverable watcher errors.
func (w *FileWatcher) Errors() <-chan error { return w.errs }

// Start begins delivering events until ctx is canceled or the watcher
// is closed.
func (w *FileWatcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *FileWatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Op&fsnotify.Remove != 0 {
				// Editors that save via delete-then-recreate emit a
				// Remove followed by a Create; re-check after the
				// debounce window and only treat a still-missing file
				// as fatal.
				w.checkRemoved()
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("scratch file changed", "op", ev.Op.String())
			w.bump()
		case err, ok := <-w.fsw.Errors:
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

// bump schedules a signal one debounce window after the first event
// of a burst. Events arriving while the timer is pending are folded
// into the same signal.
func (w *FileWatcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// checkRemoved waits one debounce window after a Remove of the target
// and reports an unrecoverable error if the file has not reappeared.
func (w *FileWatcher) checkRemoved() {
	time.AfterFunc(w.debounce, func() {
		if _, err := os.Stat(w.target); err == nil {
			return
		}
		w.logger.Debug("watched file removed", "path", w.target)
		select {
		case w.errs <- fmt.Errorf("watched file %s was removed", w.target):
		default:
		}
	})
}

func (w *FileWatcher) fire() {
	w.mu.Lock()
	w.timer = nil
	w.mu.Unlock()
	select {
	case w.events <- struct{}{}:
	default:
		// A signal is already pending; the consumer will pick up all
		// accumulated changes in one cycle.
	}
}

// Close stops the watcher. Pending timers may still fire once.
func (w *FileWatcher) Close() error {
	return w.fsw.Close()
}
