package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/logger"
)

// Watcher reloads a config file whenever it is written. Invalid edits are
// logged and skipped, so Updates only ever yields valid configs.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
	log     *zap.Logger
}

// Watch starts watching path. The parent directory is watched because
// editors often replace files instead of writing them in place.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
		log:     logger.Named("config").With(zap.String("path", abs)),
	}
	go w.run()
	return w, nil
}

// Updates yields the newest valid config after each change.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := reload(w.path)
	if err != nil {
		w.log.Warn("reload rejected", zap.Error(err))
		return
	}
	w.log.Info("reloaded")

	// Keep only the newest config.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}
