package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for ModelWatcher:
// - NewModelWatcher returns an error for a missing root directory
// - Writing a model file triggers re-ingestion and a fresh snapshot
// - Deleting a model file drops its snapshot
// - shouldProcessEvent filters by model patterns and ignore rules
// - Concurrent Stop calls are safe

func newTestIngester(t *testing.T, rootDir string) *ingester {
	t.Helper()

	cfg := DefaultConfig(rootDir)
	cfg.SearchEnabled = false

	ing, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ing.Close() })
	return ing.(*ingester)
}

func TestNewModelWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	ing := newTestIngester(t, rootDir)

	watcher, err := NewModelWatcher(ing, filepath.Join(rootDir, "nonexistent"), 100*time.Millisecond)
	assert.Error(t, err)
	assert.Nil(t, watcher)
}

func TestModelWatcher_ReingestsOnChange(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rootDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, "models"), 0o755))
	ing := newTestIngester(t, rootDir)

	watcher, err := NewModelWatcher(ing, rootDir, 100*time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	writeModel(t, rootDir, "models/tower.ifc")

	snapshotPath := filepath.Join(rootDir, ".strata", "snapshots", "models__tower.ifc.db")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(snapshotPath)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond, "snapshot should appear after the model is written")
}

func TestModelWatcher_RemoveDropsSnapshot(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rootDir := t.TempDir()
	modelPath := writeModel(t, rootDir, "tower.ifc")
	ing := newTestIngester(t, rootDir)

	_, err := ing.IngestFile(ctx, modelPath)
	require.NoError(t, err)
	snapshotPath := filepath.Join(rootDir, ".strata", "snapshots", "tower.ifc.db")
	_, err = os.Stat(snapshotPath)
	require.NoError(t, err)

	watcher, err := NewModelWatcher(ing, rootDir, 100*time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.Remove(modelPath))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(snapshotPath)
		return os.IsNotExist(err)
	}, 3*time.Second, 50*time.Millisecond, "snapshot should vanish with its model")
}

func TestModelWatcher_ShouldProcessEvent(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	ing := newTestIngester(t, rootDir)

	watcher, err := NewModelWatcher(ing, rootDir, 100*time.Millisecond)
	require.NoError(t, err)
	// Start was never called, so closing the underlying watcher is enough.
	defer watcher.watcher.Close()

	testCases := []struct {
		name     string
		relPath  string
		op       fsnotify.Op
		expected bool
	}{
		{"model write", "models/tower.ifc", fsnotify.Write, true},
		{"model create in root", "tower.ifc", fsnotify.Create, true},
		{"model removal", "old.stp", fsnotify.Remove, true},
		{"ignored directory", "backup/tower.ifc", fsnotify.Write, false},
		{"snapshot dir", ".strata/snapshots/tower.ifc.db", fsnotify.Write, false},
		{"non-model file", "notes.txt", fsnotify.Write, false},
		{"chmod only", "tower.ifc", fsnotify.Chmod, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event := fsnotify.Event{
				Name: filepath.Join(rootDir, filepath.FromSlash(tc.relPath)),
				Op:   tc.op,
			}
			assert.Equal(t, tc.expected, watcher.shouldProcessEvent(event))
		})
	}
}

func TestModelWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	ing := newTestIngester(t, rootDir)

	watcher, err := NewModelWatcher(ing, rootDir, 100*time.Millisecond)
	require.NoError(t, err)

	watcher.Start(context.Background())

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			watcher.Stop()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
