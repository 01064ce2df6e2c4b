package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/manngobeh2006/oneclick-master/logger"

	"github.com/fsnotify/fsnotify"
)

const (
	// A file is handed to the workers only after no write events for this
	// long, so half-written analyzer output is not picked up.
	settleWindow = 200 * time.Millisecond

	pendingTick = 100 * time.Millisecond

	taskQueueSize = 100
)

// Watcher ingests analyzer documents dropped into an inbox directory.
// fsnotify events feed a pending set; once a file's size stops changing it
// goes to the worker pool.
type Watcher struct {
	service *Service
	dir     string
	workers int
}

// NewWatcher creates a watcher over the given inbox. workers <= 0 sizes the
// pool from the CPU count, capped at 8.
func NewWatcher(service *Service, dir string, workers int) *Watcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	return &Watcher{service: service, dir: dir, workers: workers}
}

// Run watches the inbox until the context is cancelled. Files already in
// the inbox at startup are ingested once.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	tasks := make(chan string, taskQueueSize)
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.worker(ctx, workerID, tasks)
		}(i)
	}

	logger.Info("watching corpus inbox",
		logger.String("dir", w.dir),
		logger.Int("workers", w.workers))

	processed := &sync.Map{}
	w.enqueueExisting(tasks, processed)
	w.watchLoop(ctx, watcher, tasks, processed)

	close(tasks)
	wg.Wait()
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, tasks chan<- string, processed *sync.Map) {
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(pendingTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && filepath.Ext(event.Name) == ".json" {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for path, lastEvent := range pending {
				if now.Sub(lastEvent) < settleWindow {
					continue
				}
				if !isFileComplete(path) {
					continue
				}
				if _, done := processed.LoadOrStore(path, true); done {
					delete(pending, path)
					continue
				}
				select {
				case tasks <- path:
					delete(pending, path)
				default:
					// queue full, retry on the next tick
					processed.Delete(path)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) worker(ctx context.Context, workerID int, tasks <-chan string) {
	for path := range tasks {
		select {
		case <-ctx.Done():
			return
		default:
		}

		track, stored, err := w.service.IngestFile(ctx, path)
		if err != nil {
			logger.Warn("failed to ingest analysis file",
				logger.Int("worker", workerID),
				logger.String("file", path),
				logger.ErrorField(err))
			continue
		}
		if !stored {
			logger.Debug("duplicate analysis skipped",
				logger.String("file", path),
				logger.String("hash", track.FileHash))
			continue
		}
		logger.Debug("analysis file processed",
			logger.Int("worker", workerID),
			logger.String("file", path),
			logger.String("genre", track.Genre))
	}
}

// enqueueExisting picks up files that were already in the inbox before the
// watch started.
func (w *Watcher) enqueueExisting(tasks chan<- string, processed *sync.Map) {
	files, err := filepath.Glob(filepath.Join(w.dir, "*.json"))
	if err != nil {
		return
	}
	for _, path := range files {
		if _, done := processed.LoadOrStore(path, true); done {
			continue
		}
		select {
		case tasks <- path:
		default:
			processed.Delete(path)
		}
	}
}

// isFileComplete double-stats the file to make sure it is not still growing.
func isFileComplete(path string) bool {
	info1, err := os.Stat(path)
	if err != nil || info1.Size() == 0 {
		return false
	}

	time.Sleep(30 * time.Millisecond)

	info2, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info1.Size() == info2.Size()
}
