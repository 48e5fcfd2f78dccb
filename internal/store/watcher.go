package store

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// syncTarget is the watcher-facing surface of a Collection.
type syncTarget interface {
	Filename() string
	SyncFromDisk()
}

// Watcher propagates changes made by other processes sharing the same data
// directory. Each registered collection adopts the new on-disk value wholesale
// when its file changes; nothing is merged. Two processes writing the same
// collection without an intervening change event lose one writer's update:
// last writer wins, an accepted property of the shared medium.
type Watcher struct {
	dir     string
	fsw     *fsnotify.Watcher
	logger  *zap.Logger
	targets map[string]syncTarget
	done    chan struct{}
}

// NewWatcher starts watching dataDir for collection file changes.
func NewWatcher(dataDir string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dataDir); err != nil {
		fsw.Close() //nolint:errcheck
		return nil, fmt.Errorf("watch data directory: %w", err)
	}
	w := &Watcher{
		dir:     dataDir,
		fsw:     fsw,
		logger:  logger,
		targets: make(map[string]syncTarget),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Register routes change events for the collection's file to it. Must be
// called before concurrent writers are expected.
func (w *Watcher) Register(target syncTarget) {
	w.targets[target.Filename()] = target
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			target, registered := w.targets[filepath.Base(ev.Name)]
			if !registered {
				continue
			}
			w.logger.Debug("shared collection changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			target.SyncFromDisk()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
