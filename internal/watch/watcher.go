// Package watch imports bundle files dropped into a directory.
package watch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/checksum"
)

// settle is how long a file must stay quiet before it is read, so editors
// and copies that write in several chunks are imported once.
const settle = 200 * time.Millisecond

// Importer applies a bundle. *portfolioservice.Service implements it.
type Importer interface {
	Import(ctx context.Context, data []byte, source string) (*bundle.Bundle, error)
}

// ResultCallback is called after each import attempt with the file path
// and the import error, if any.
type ResultCallback func(path string, err error)

// Watch starts an fsnotify watcher on dir and imports every bundle file
// (.json, .yaml, .yml) that is created or written there, until ctx is
// cancelled. Invalid bundles are logged and skipped. A file whose bytes
// did not change since its last import is not imported again.
func Watch(ctx context.Context, dir string, imp Importer, source string, logger *slog.Logger, cb ResultCallback) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	pending := map[string]*time.Timer{}
	ready := make(chan string)
	imported := map[string]string{}

	schedule := func(path string) {
		if t, ok := pending[path]; ok {
			t.Reset(settle)
			return
		}
		pending[path] = time.AfterFunc(settle, func() {
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			for _, t := range pending {
				t.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case path := <-ready:
			delete(pending, path)
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				logger.Warn("watcher: read failed", slog.String("path", path), slog.String("error", readErr.Error()))
				continue
			}
			sum := checksum.Sum(data)
			if imported[path] == sum {
				logger.Debug("watcher: unchanged, skipped", slog.String("path", path))
				continue
			}
			_, impErr := imp.Import(ctx, data, source)
			if impErr != nil {
				logger.Warn("watcher: import failed", slog.String("path", path), slog.String("error", impErr.Error()))
			} else {
				imported[path] = sum
				logger.Info("watcher: imported", slog.String("path", path))
			}
			if cb != nil {
				cb(path, impErr)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !bundle.IsBundlePath(ev.Name) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule(ev.Name)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if t, ok := pending[ev.Name]; ok {
					t.Stop()
					delete(pending, ev.Name)
				}
				delete(imported, ev.Name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

