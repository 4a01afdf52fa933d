package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/strata-bim/strata/internal/logger"
)

// ModelWatcher watches the root directory for model file changes and
// triggers re-ingestion.
type ModelWatcher struct {
	ingester     *ingester
	rootDir      string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewModelWatcher creates a new file watcher for the ingester.
func NewModelWatcher(ing Ingester, rootDir string, debounce time.Duration) (*ModelWatcher, error) {
	ingesterImpl, ok := ing.(*ingester)
	if !ok {
		logger.Warnf("expected *ingester, got %T", ing)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	mw := &ModelWatcher{
		ingester:     ingesterImpl,
		rootDir:      rootDir,
		watcher:      watcher,
		debounceTime: debounce,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := mw.addDirectoriesRecursively(rootDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return mw, nil
}

// Start begins watching for file changes.
func (mw *ModelWatcher) Start(ctx context.Context) {
	go mw.watch(ctx)
}

// Stop stops the file watcher.
func (mw *ModelWatcher) Stop() {
	mw.stopOnce.Do(func() {
		close(mw.stopCh)
		<-mw.doneCh // Wait for goroutine to finish
		mw.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (mw *ModelWatcher) watch(ctx context.Context) {
	defer close(mw.doneCh)

	var debounceTimer *time.Timer
	reingestCh := make(chan struct{}, 1)
	changedFiles := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-mw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}

			if !mw.shouldProcessEvent(event) {
				continue
			}

			relPath, _ := filepath.Rel(mw.rootDir, event.Name)
			changedFiles[filepath.ToSlash(relPath)] = true

			// New directories join the watch so models dropped into them
			// are seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if mw.shouldWatchDirectory(event.Name) {
						if err := mw.addDirectoriesRecursively(event.Name); err != nil {
							logger.Warnf("failed to watch new directory %s: %v", event.Name, err)
						}
					}
				}
			}

			// Reset debounce timer, stopping and draining a fired one.
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}

			debounceTimer = time.AfterFunc(mw.debounceTime, func() {
				select {
				case reingestCh <- struct{}{}:
				default:
				}
			})

		case <-reingestCh:
			mw.triggerReingest(ctx, changedFiles)
			changedFiles = make(map[string]bool)

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("file watcher error: %v", err)
		}
	}
}

// triggerReingest re-ingests the changed model files. Files that vanished
// lose their snapshots instead.
func (mw *ModelWatcher) triggerReingest(ctx context.Context, changedFiles map[string]bool) {
	if len(changedFiles) == 0 {
		return
	}

	logger.Infof("re-ingesting %d changed model file(s)", len(changedFiles))
	start := time.Now()

	ingested := 0
	for relPath := range changedFiles {
		absPath := filepath.Join(mw.rootDir, filepath.FromSlash(relPath))
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			mw.removeSnapshot(relPath)
			continue
		}

		result, err := mw.ingester.ingestFile(ctx, absPath, false)
		if err != nil {
			logger.Warnf("failed to re-ingest %s: %v", relPath, err)
			continue
		}
		ingested++
		logger.Infof("re-ingested %s: %d entities, %d edges",
			relPath, result.Store.Table().Len(), result.Store.Graph().Len())
	}

	logger.Infof("re-ingest complete in %v (%d file(s))", time.Since(start), ingested)
}

// removeSnapshot drops the snapshot of a deleted model file.
func (mw *ModelWatcher) removeSnapshot(relPath string) {
	if mw.ingester.config.SnapshotDir == "" {
		return
	}
	snapshotPath := filepath.Join(mw.ingester.config.SnapshotDir, SnapshotName(relPath))
	if err := os.Remove(snapshotPath); err == nil {
		logger.Infof("removed snapshot for deleted model %s", relPath)
	}
}

// shouldProcessEvent checks if an event should trigger re-ingestion.
func (mw *ModelWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Only care about WRITE, CREATE, REMOVE and RENAME events
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	relPath, err := filepath.Rel(mw.rootDir, event.Name)
	if err != nil {
		return false
	}

	return mw.ingester.discovery.IsModelPath(relPath)
}

// shouldWatchDirectory checks if a directory should be watched.
func (mw *ModelWatcher) shouldWatchDirectory(path string) bool {
	relPath, err := filepath.Rel(mw.rootDir, path)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	return !mw.ingester.discovery.shouldIgnore(relPath)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (mw *ModelWatcher) addDirectoriesRecursively(rootPath string) error {
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
		if path != rootPath && !mw.shouldWatchDirectory(path) {
			return filepath.SkipDir
		}
		if err := mw.watcher.Add(path); err != nil {
			logger.Warnf("failed to watch directory %s: %v", path, err)
			return nil
		}
		return nil
	})
}
