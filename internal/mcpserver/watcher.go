package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/strata-bim/strata/internal/ingest"
	"github.com/strata-bim/strata/internal/logger"
)

// Invalidator drops cached state for a changed model file.
type Invalidator interface {
	Invalidate(path string)
}

// FileWatcher watches the project tree and invalidates cached models when
// their files change, so the next tool call re-ingests fresh content.
type FileWatcher struct {
	invalidator  Invalidator
	discovery    *ingest.FileDiscovery
	rootDir      string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	started      atomic.Bool
	stopOnce     sync.Once
}

// NewFileWatcher creates a watcher over the ingest config's root directory.
// A debounce of zero or less falls back to 500ms.
func NewFileWatcher(invalidator Invalidator, cfg *ingest.Config, debounce time.Duration) (*FileWatcher, error) {
	rootDir, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, err
	}

	discovery, err := ingest.NewFileDiscovery(rootDir, cfg.ModelPatterns, cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	fw := &FileWatcher{
		invalidator:  invalidator,
		discovery:    discovery,
		rootDir:      rootDir,
		watcher:      watcher,
		debounceTime: debounce,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := fw.addDirectoriesRecursively(rootDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return fw, nil
}

// Start begins watching for file changes. Only the first call starts the
// event loop.
func (fw *FileWatcher) Start(ctx context.Context) {
	if !fw.started.CompareAndSwap(false, true) {
		return
	}
	go fw.watch(ctx)
}

// Stop stops the file watcher. Safe to call without a prior Start.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopCh)
		if fw.started.Load() {
			<-fw.doneCh // Wait for goroutine to finish
		}
		fw.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (fw *FileWatcher) watch(ctx context.Context) {
	defer close(fw.doneCh)

	var debounceTimer *time.Timer
	invalidateCh := make(chan struct{}, 1)
	changedFiles := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-fw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// New directories join the watch so models dropped into them
			// are seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if fw.shouldWatchDirectory(event.Name) {
						if err := fw.addDirectoriesRecursively(event.Name); err != nil {
							logger.Warnf("failed to watch new directory %s: %v", event.Name, err)
						}
					}
					continue
				}
			}

			if !fw.shouldProcessEvent(event) {
				continue
			}

			changedFiles[filepath.Clean(event.Name)] = true

			// Reset debounce timer, stopping and draining a fired one.
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}

			debounceTimer = time.AfterFunc(fw.debounceTime, func() {
				select {
				case invalidateCh <- struct{}{}:
				default:
				}
			})

		case <-invalidateCh:
			for path := range changedFiles {
				fw.invalidator.Invalidate(path)
			}
			changedFiles = make(map[string]bool)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("model watcher error: %v", err)
		}
	}
}

// shouldProcessEvent checks if an event should invalidate a cached model.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Only care about WRITE, CREATE, REMOVE and RENAME events
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	relPath, err := filepath.Rel(fw.rootDir, event.Name)
	if err != nil {
		return false
	}

	return fw.discovery.IsModelPath(relPath)
}

// shouldWatchDirectory checks if a directory should be watched.
func (fw *FileWatcher) shouldWatchDirectory(path string) bool {
	relPath, err := filepath.Rel(fw.rootDir, path)
	if err != nil {
		return false
	}

	return !fw.discovery.IsIgnored(relPath)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (fw *FileWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Log but continue, one unreadable directory should not end
			// the whole watch.
			logger.Warnf("error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != rootPath && !fw.shouldWatchDirectory(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			logger.Warnf("failed to watch directory %s: %v", path, err)
			return nil
		}
		return nil
	})
}
