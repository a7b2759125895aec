package assetbuild

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
)

// Watcher rebuilds authored assets as they change on disk. It only works on
// the OS file system.
type Watcher struct {
	root    string
	builder Builder
	logger  *log.Logger
	watcher *fsnotify.Watcher
}

func NewWatcher(root string, builder Builder, logger *log.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "failed to create the file watcher")
	}
	return &Watcher{
		root:    root,
		builder: builder,
		logger:  logger,
		watcher: fsw,
	}, nil
}

// Run watches root and every directory under it until ctx is done. Builds
// happen one at a time on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watchRecursive(w.root); err != nil {
		return err
	}
	w.logger.Info("Watching for changes", "root", w.root)

	for {
		select {
		case e, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(e)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher failed", "err", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) handle(e fsnotify.Event) {
	info, err := os.Stat(e.Name)
	if err == nil && info.IsDir() {
		// Files can land in a new directory before it is watched, so
		// watchRecursive builds what it finds.
		if e.Has(fsnotify.Create) {
			if err := w.watchRecursive(e.Name); err != nil {
				w.logger.Error("Failed to watch a new directory", "dir", e.Name, "err", err)
			}
		}
		return
	}
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		// Can't stat a removed path, so just try to drop it from the watch list.
		_ = w.watcher.Remove(e.Name)
		return
	}
	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		w.build(e.Name)
	}
}

// watchRecursive adds path and the directories under it to the watch list
// and builds the files it finds on the way.
func (w *Watcher) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if err := w.watcher.Add(walkPath); err != nil {
				return eris.Wrapf(err, "failed to watch \"%s\"", walkPath)
			}
			return nil
		}
		if walkPath != path {
			w.build(walkPath)
		}
		return nil
	})
}

func (w *Watcher) build(path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		w.logger.Error("Changed file is outside the authored assets", "path", path)
		return
	}
	if w.builder.BuildAsset(rel) {
		w.logger.Info("Built", "asset", rel)
	} else {
		w.logger.Warn("Failed to build", "asset", rel)
	}
}
