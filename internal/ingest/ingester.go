// Package ingest orchestrates model ingestion: discovering model files,
// running the in-memory build, and writing snapshots and search indexes
// for the query surfaces.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strata-bim/strata/internal/logger"
	"github.com/strata-bim/strata/internal/model"
	"github.com/strata-bim/strata/internal/search"
	"github.com/strata-bim/strata/internal/storage"
)

// Ingester provides the main interface for model ingestion.
type Ingester interface {
	// IngestFile ingests one model file and returns the live result. The
	// caller owns the result and must close its searcher when done.
	IngestFile(ctx context.Context, path string) (*Result, error)

	// IngestAll discovers and ingests every model file under the root,
	// writing snapshots when a snapshot directory is configured. Returns
	// statistics about the run.
	IngestAll(ctx context.Context) (*Stats, error)

	// Watch re-ingests model files as they change on disk.
	// Blocks until the context is cancelled.
	Watch(ctx context.Context) error

	// Close releases all resources held by the ingester.
	Close() error
}

// Config contains configuration for the ingester.
type Config struct {
	// Root directory the model patterns are resolved against
	RootDir string

	// Paths configuration
	ModelPatterns  []string
	IgnorePatterns []string

	// Ingestion configuration
	YieldEvery  int
	EagerTables bool

	// Snapshot output directory; empty disables snapshot writing
	SnapshotDir string

	// Search index construction for IngestFile results
	SearchEnabled bool

	// Watch debounce in milliseconds
	DebounceMS int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig(rootDir string) *Config {
	return &Config{
		RootDir: rootDir,
		ModelPatterns: []string{
			"**/*.ifc",
			"**/*.stp",
			"**/*.step",
		},
		IgnorePatterns: []string{
			".git/**",
			".strata/**",
			"node_modules/**",
			"backup/**",
			"*.bak",
		},
		YieldEvery:    10000,
		SnapshotDir:   filepath.Join(rootDir, ".strata", "snapshots"),
		SearchEnabled: true,
		DebounceMS:    500,
	}
}

// Result is the live outcome of ingesting one model file.
type Result struct {
	// Path is the model file path relative to the root directory.
	Path string

	// Store is the ingested in-memory model.
	Store *model.Store

	// Searcher indexes the store when search is enabled, nil otherwise.
	Searcher search.Searcher

	// SnapshotPath and SnapshotID identify the written snapshot, empty
	// when snapshot writing is disabled.
	SnapshotPath string
	SnapshotID   string
}

// FileStats summarizes one ingested model file.
type FileStats struct {
	Path         string        `json:"path"`
	Entities     int           `json:"entities"`
	Edges        int           `json:"edges"`
	SpatialNodes int           `json:"spatial_nodes"`
	Warnings     int           `json:"warnings"`
	SnapshotPath string        `json:"snapshot_path,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Stats summarizes a whole ingestion run.
type Stats struct {
	Files         int           `json:"files"`
	Failed        int           `json:"failed"`
	TotalEntities int           `json:"total_entities"`
	TotalEdges    int           `json:"total_edges"`
	Elapsed       time.Duration `json:"elapsed"`
	PerFile       []FileStats   `json:"per_file,omitempty"`
}

// ingester implements the Ingester interface.
type ingester struct {
	config    *Config
	discovery *FileDiscovery
	progress  ProgressReporter
	watcher   *ModelWatcher
}

// New creates a new ingester instance.
func New(config *Config) (Ingester, error) {
	return NewWithProgress(config, &NoOpProgressReporter{})
}

// NewWithProgress creates a new ingester instance with a custom progress
// reporter.
func NewWithProgress(config *Config, progress ProgressReporter) (Ingester, error) {
	discovery, err := NewFileDiscovery(config.RootDir, config.ModelPatterns, config.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	return &ingester{
		config:    config,
		discovery: discovery,
		progress:  progress,
	}, nil
}

// Close releases all resources held by the ingester.
func (ing *ingester) Close() error {
	if ing.watcher != nil {
		ing.watcher.Stop()
		ing.watcher = nil
	}
	return nil
}

// IngestFile ingests one model file and returns the live result.
func (ing *ingester) IngestFile(ctx context.Context, path string) (*Result, error) {
	return ing.ingestFile(ctx, path, ing.config.SearchEnabled)
}

func (ing *ingester) ingestFile(ctx context.Context, path string, withSearch bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(ing.config.RootDir, path)
	}
	relPath, err := filepath.Rel(ing.config.RootDir, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	ing.progress.OnFileStart(relPath, int64(len(buf)))

	opts := []model.Option{
		model.WithYieldEvery(ing.config.YieldEvery),
		model.WithProgress(func(p model.Progress) {
			ing.progress.OnPhase(relPath, p.Phase, p.Percent)
		}),
	}
	if ing.config.EagerTables {
		opts = append(opts, model.WithEagerTables())
	}

	st := model.Ingest(buf, opts...)
	for _, w := range st.Warnings() {
		logger.Warnf("%s: %s", relPath, w)
	}

	result := &Result{Path: relPath, Store: st}

	if withSearch {
		searcher, err := search.NewSearcher(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("failed to build search index: %w", err)
		}
		result.Searcher = searcher
	}

	if ing.config.SnapshotDir != "" {
		snapshotPath, snapshotID, err := ing.writeSnapshot(st, relPath)
		if err != nil {
			if result.Searcher != nil {
				result.Searcher.Close()
			}
			return nil, err
		}
		result.SnapshotPath = snapshotPath
		result.SnapshotID = snapshotID
	}

	ing.progress.OnFileComplete(fileStats(result))
	return result, nil
}

// IngestAll discovers and ingests every model file under the root.
func (ing *ingester) IngestAll(ctx context.Context) (*Stats, error) {
	start := time.Now()

	ing.progress.OnDiscoveryStart()
	files, err := ing.discovery.DiscoverModels()
	if err != nil {
		return nil, fmt.Errorf("failed to discover model files: %w", err)
	}
	ing.progress.OnDiscoveryComplete(len(files))

	stats := &Stats{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		// Search indexes are per-session; a batch run only persists
		// snapshots.
		result, err := ing.ingestFile(ctx, file, false)
		if err != nil {
			logger.Warnf("skipping %s: %v", file, err)
			stats.Failed++
			continue
		}

		fs := fileStats(result)
		stats.Files++
		stats.TotalEntities += fs.Entities
		stats.TotalEdges += fs.Edges
		stats.PerFile = append(stats.PerFile, fs)
	}

	stats.Elapsed = time.Since(start)
	ing.progress.OnComplete(stats)
	return stats, nil
}

// Watch re-ingests model files as they change on disk.
func (ing *ingester) Watch(ctx context.Context) error {
	watcher, err := NewModelWatcher(ing, ing.config.RootDir, ing.debounce())
	if err != nil {
		return fmt.Errorf("failed to create model watcher: %w", err)
	}
	ing.watcher = watcher

	watcher.Start(ctx)
	<-ctx.Done()
	watcher.Stop()
	ing.watcher = nil
	return ctx.Err()
}

func (ing *ingester) debounce() time.Duration {
	if ing.config.DebounceMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(ing.config.DebounceMS) * time.Millisecond
}

// writeSnapshot persists the store under the snapshot directory, one
// database per model file.
func (ing *ingester) writeSnapshot(st *model.Store, relPath string) (string, string, error) {
	if err := os.MkdirAll(ing.config.SnapshotDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	snapshotPath := filepath.Join(ing.config.SnapshotDir, SnapshotName(relPath))
	writer, err := storage.NewWriter(snapshotPath)
	if err != nil {
		return "", "", err
	}
	defer writer.Close()

	snapshotID, err := writer.WriteSnapshot(st, relPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to write snapshot for %s: %w", relPath, err)
	}
	return snapshotPath, snapshotID, nil
}

// SnapshotName maps a root-relative model path to its snapshot file name.
// Separators flatten to "__" so sibling directories cannot collide.
func SnapshotName(relPath string) string {
	flat := strings.NewReplacer("/", "__", "\\", "__").Replace(filepath.ToSlash(relPath))
	return flat + ".db"
}

func fileStats(result *Result) FileStats {
	st := result.Store
	fs := FileStats{
		Path:         result.Path,
		Entities:     st.Table().Len(),
		Edges:        st.Graph().Len(),
		Warnings:     len(st.Warnings()),
		SnapshotPath: result.SnapshotPath,
		Elapsed:      st.Elapsed(),
	}
	if hier := st.Hierarchy(); hier != nil {
		fs.SpatialNodes = hier.Len()
	}
	return fs
}
