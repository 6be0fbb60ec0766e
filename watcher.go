package physics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// ConfigWatcher reloads a config file when it changes on disk and delivers
// every successfully parsed version on Updates. Apply them between ticks with
// World.ApplyConfig.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	Updates chan Config
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchConfig watches the directory of filename, editors often replace files
// instead of writing them in place.
func WatchConfig(filename string) (*ConfigWatcher, error) {
	path, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &ConfigWatcher{
		watcher: w,
		path:    path,
		Updates: make(chan Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *ConfigWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *ConfigWatcher) run() {
	defer func() {
		close(w.Updates)
		close(w.Errors)
		close(w.done)
	}()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// wait for the writes to settle before reading the file
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			config, err := LoadConfig(w.path)
			if err != nil {
				w.send(w.Errors, err)
				continue
			}
			w.sendConfig(config)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(w.Errors, err)
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// sendConfig replaces a pending update that was not consumed yet
func (w *ConfigWatcher) sendConfig(config Config) {
	select {
	case <-w.Updates:
	default:
	}
	select {
	case w.Updates <- config:
	case <-w.closeCh:
	}
}

func (w *ConfigWatcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	case <-w.closeCh:
	}
}
