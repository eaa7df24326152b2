package live

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/psidex/subgraph/internal/graph"
)

// DataWatcher reloads a data file into a Server whenever it changes.
type DataWatcher struct {
	path     string
	srv      *Server
	log      *slog.Logger
	debounce time.Duration
}

func NewDataWatcher(path string, srv *Server) *DataWatcher {
	return &DataWatcher{
		path:     path,
		srv:      srv,
		log:      srv.log.With("file", path),
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets how long the file must be quiet before it is read.
func (w *DataWatcher) WithDebounce(d time.Duration) *DataWatcher {
	w.debounce = d
	return w
}

// Watch blocks until ctx is done. A file that does not decode or validate is logged
// and the server keeps the data it has.
func (w *DataWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, editors often replace the file rather than write to it.
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching data file for changes")

	changed := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			w.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "err", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *DataWatcher) reload() {
	d, err := graph.Load(w.path)
	if err != nil {
		w.log.Warn("could not reload data file", "err", err)
		return
	}
	if err := w.srv.SetData(d); err != nil {
		w.log.Warn("could not use reloaded data", "err", err)
		return
	}
	w.log.Info("data file reloaded")
}
