package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Cache is the invalidation surface of the template cache.
type Cache interface {
	Invalidate(org, template string) bool
}

// MetadataWatcher watches a metadata directory tree and invalidates the
// template cache entry whose files changed. Changes are debounced per
// template so a burst of writes produces one invalidation.
type MetadataWatcher struct {
	root     string
	cache    Cache
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewMetadataWatcher creates a watcher over the metadata root used by the
// filesystem provider. A nil logger falls back to slog.Default.
func NewMetadataWatcher(root string, cache Cache, debounce time.Duration, logger *slog.Logger) (*MetadataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataWatcher{
		root:     root,
		cache:    cache,
		watcher:  w,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// watchRecursive adds a directory and all its subdirectories.
func (w *MetadataWatcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run starts the event loop and blocks until the context is cancelled.
func (w *MetadataWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watchRecursive(w.root); err != nil {
		return err
	}

	debouncer := newKeyedDebouncer(w.debounce, func(key string) {
		org, template, ok := strings.Cut(key, "/")
		if !ok {
			return
		}
		if w.cache.Invalidate(org, template) {
			w.logger.Info("template cache invalidated", "org", org, "template", template)
		}
	})
	defer debouncer.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevantOp(event.Op) {
				continue
			}

			// Watch directories as they appear, so new templates are
			// picked up without a restart.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watchRecursive(event.Name)
				}
			}

			if org, template, ok := w.templateFor(event.Name); ok {
				debouncer.trigger(org + "/" + template)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// templateFor maps a changed path to the (org, template) it belongs to.
// Only paths under <org>/templates/<template>/ count; changes elsewhere in
// the metadata tree do not touch the template cache.
func (w *MetadataWatcher) templateFor(path string) (org, template string, ok bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 || parts[1] != "templates" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
