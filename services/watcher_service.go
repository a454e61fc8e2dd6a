package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WatcherService keeps the upload directory and the vector store in sync for
// files placed on disk outside the HTTP API: it scans once at startup and
// then watches for new files. Files saved by the upload endpoint carry a
// uuid prefix and are skipped, since the handler already ingested them.
// Nothing is ever removed from the index.
type WatcherService struct {
	ingest *IngestService
	store  VectorStore
	dir    string
	log    *zap.Logger

	// Content hashes known to be indexed, seeded from the store and grown
	// as files are ingested. Only touched from the watcher goroutine.
	seen map[string]struct{}
}

func NewWatcherService(ingest *IngestService, store VectorStore, dir string, log *zap.Logger) *WatcherService {
	return &WatcherService{
		ingest: ingest,
		store:  store,
		dir:    dir,
		seen:   make(map[string]struct{}),
		log:    log,
	}
}

// Run scans the directory once, then blocks watching it until the context is
// cancelled.
func (w *WatcherService) Run(ctx context.Context) {
	hashes, err := w.store.IndexedHashes(ctx)
	if err != nil {
		w.log.Error("could not read index state, assuming empty", zap.Error(err))
		hashes = make(map[string]struct{})
	}
	w.seen = hashes
	w.log.Info("loaded index state", zap.Int("documents", len(w.seen)))

	w.scan(ctx)
	w.watch(ctx)
}

// scan ingests every supported, not-yet-indexed file already on disk.
func (w *WatcherService) scan(ctx context.Context) {
	w.log.Info("scanning upload directory", zap.String("dir", w.dir))
	err := filepath.Walk(w.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.maybeIngest(ctx, path)
		}
		return nil
	})
	if err != nil {
		w.log.Error("error walking upload directory", zap.String("dir", w.dir), zap.Error(err))
	}
	w.log.Info("upload directory scan finished")
}

// watch ingests supported files as they appear in the directory.
func (w *WatcherService) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Error("failed to create file watcher", zap.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		w.log.Error("failed to watch upload directory", zap.String("dir", w.dir), zap.Error(err))
		return
	}
	w.log.Info("watching upload directory", zap.String("dir", w.dir))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Editors and copies often fire Create followed by Write for
			// the same file; hash dedup makes handling both harmless.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.maybeIngest(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", zap.Error(err))
		case <-ctx.Done():
			w.log.Info("shutting down upload watcher")
			return
		}
	}
}

func (w *WatcherService) maybeIngest(ctx context.Context, path string) {
	if !IsSupported(path) || hasUploadIDPrefix(path) {
		return
	}

	hash, err := fileSHA256(path)
	if err != nil {
		w.log.Warn("could not hash file", zap.String("path", path), zap.Error(err))
		return
	}
	if _, ok := w.seen[hash]; ok {
		return
	}

	fileID := uuid.New().String()
	w.log.Info("ingesting file from disk", zap.String("path", path), zap.String("file_id", fileID))
	if _, err := w.ingest.IngestFile(ctx, path, fileID); err != nil {
		w.log.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
		return
	}
	w.seen[hash] = struct{}{}
}

// hasUploadIDPrefix reports whether the file was saved by the upload
// endpoint, which names files "{uuid}_{original name}".
func hasUploadIDPrefix(path string) bool {
	name := filepath.Base(path)
	idx := strings.IndexByte(name, '_')
	if idx < 0 {
		return false
	}
	_, err := uuid.Parse(name[:idx])
	return err == nil
}
