package shader

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/logger"
)

// Watcher records programs whose sources changed on disk. It only
// collects program names; the caller recompiles on the GL thread.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
	log  *zap.Logger

	mu      sync.Mutex
	pending []string
	queued  map[string]bool
}

// NewWatcher watches the program directories under dir for the given names.
func NewWatcher(dir string, names []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := fsw.Add(filepath.Join(dir, name)); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:  fsw,
		done: make(chan struct{}),
		log:  logger.Named("shader"),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".glsl") {
				continue
			}
			w.queue(filepath.Base(filepath.Dir(event.Name)))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// queue records name once until the next Drain.
func (w *Watcher) queue(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queued[name] {
		return
	}
	if w.queued == nil {
		w.queued = make(map[string]bool)
	}
	w.queued[name] = true
	w.pending = append(w.pending, name)
	w.log.Debug("shader source changed", zap.String("program", name))
}

// Drain returns the distinct program names changed since the last call,
// in the order they were first written.
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := w.pending
	w.pending = nil
	clear(w.queued)
	return names
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
