package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceWindow batches the event bursts editors and slicers produce when
// they rewrite the reference package.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads the catalog store when the reference package changes on
// disk. It watches the package's directory so replace-by-rename is seen.
type Watcher struct {
	path  string
	store *Store
	log   *zap.Logger

	fw   *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher prepares a watcher that reloads path into store on change.
func NewWatcher(path string, store *Store, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog: watcher: %w", err)
	}
	return &Watcher{
		path:  path,
		store: store,
		log:   log,
		fw:    fw,
		done:  make(chan struct{}),
	}, nil
}

// Start begins watching. Stop must be called to release the watcher.
func (w *Watcher) Start() error {
	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(w.path), err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.fw.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	ticker := time.NewTicker(debounceWindow)
	defer ticker.Stop()

	var pending bool
	var last time.Time
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}
		case <-ticker.C:
			if pending && time.Since(last) >= debounceWindow {
				pending = false
				w.log.Info("filament profile package changed, reloading",
					zap.String("path", w.path))
				w.store.Replace(Load(w.path, w.log))
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}
