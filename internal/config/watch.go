package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the configuration file when it changes on disk and hands
// the new value to a callback. The callback runs on the watcher goroutine.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(Config)
	log      *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher watches path. The parent directory is watched rather than the
// file so editors that save by rename are still noticed.
func NewWatcher(path string, log *zap.Logger, onChange func(Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		onChange: onChange,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop ends the watcher and waits for its goroutine.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
	<-w.doneCh
}

func (w *Watcher) watchLoop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("reload config", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("config reloaded", zap.String("path", w.path))
			if w.onChange != nil {
				w.onChange(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher", zap.Error(err))
		}
	}
}
