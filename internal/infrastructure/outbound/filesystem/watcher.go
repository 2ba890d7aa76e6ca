package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

// Watcher watches the content tree for markdown and YAML changes and
// triggers a reload callback after a debounce window.
type Watcher struct {
	rootDir  string
	debounce time.Duration
	logger   ports.Logger
	watcher  *fsnotify.Watcher
	onReload func()
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewWatcher creates a file watcher for the given content directory.
func NewWatcher(rootDir string, debounce time.Duration, logger ports.Logger, onReload func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootDir:  rootDir,
		debounce: debounce,
		logger:   logger,
		watcher:  fsWatcher,
		onReload: onReload,
		done:     make(chan struct{}),
	}

	if err := w.addRecursive(rootDir); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes in a goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop terminates the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !isContentFile(event.Name) {
				// Watch newly created directories (e.g. a new posts subdir).
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.addRecursive(event.Name)
					}
				}
				continue
			}

			w.logger.Debug("content change detected", "file", event.Name, "op", event.Op.String())

			// Debounce: reset timer on each event.
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-timerC:
			w.logger.Info("reloading site due to content changes")
			w.onReload()
			timerC = nil
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".yaml", ".yml":
		return true
	}
	return false
}
