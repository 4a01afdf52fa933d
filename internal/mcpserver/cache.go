// Package mcpserver exposes ingested models to agent tooling over the MCP
// stdio protocol. Models load lazily on first use and stay cached between
// tool calls; a file watcher drops cached entries when the model changes on
// disk.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/maypok86/otter"

	"github.com/strata-bim/strata/internal/ingest"
	"github.com/strata-bim/strata/internal/logger"
	"github.com/strata-bim/strata/internal/model"
	"github.com/strata-bim/strata/internal/search"
)

// LoadedModel is one ingested model held by the cache.
type LoadedModel struct {
	// Path is the absolute model file path, also the cache key.
	Path string

	// Rel is the path relative to the project root, slash separated.
	Rel string

	// Store is the ingested in-memory model.
	Store *model.Store

	// Searcher indexes the store when search is enabled, nil otherwise.
	Searcher search.Searcher

	// LoadedAt records when the model was ingested.
	LoadedAt time.Time
}

// ModelCache loads models on demand and keeps recently used ones in memory.
// Eviction never closes a model that a handler may still be reading; the
// in-memory store and search index are plain heap state reclaimed by GC.
type ModelCache struct {
	rootDir   string
	ingestCfg *ingest.Config
	ingester  ingest.Ingester
	discovery *ingest.FileDiscovery
	cache     otter.Cache[string, *LoadedModel]

	// mu serializes cache misses so one slow ingest does not run twice.
	mu sync.Mutex
}

// NewModelCache creates a model cache for the configured project root.
func NewModelCache(config *ServerConfig) (*ModelCache, error) {
	if config == nil {
		config = DefaultServerConfig(".")
	}

	rootDir, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	ingestCfg := config.Ingest
	if ingestCfg == nil {
		ingestCfg = DefaultServerConfig(rootDir).Ingest
	}
	// Resolve the ingest root on a copy, the caller's config stays untouched.
	cfgCopy := *ingestCfg
	cfgCopy.RootDir = rootDir

	discovery, err := ingest.NewFileDiscovery(rootDir, cfgCopy.ModelPatterns, cfgCopy.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	ingester, err := ingest.New(&cfgCopy)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingester: %w", err)
	}

	maxModels := config.MaxModels
	if maxModels <= 0 {
		maxModels = 4
	}
	ttl := config.ModelTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	cache, err := otter.MustBuilder[string, *LoadedModel](maxModels).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create model cache: %w", err)
	}

	return &ModelCache{
		rootDir:   rootDir,
		ingestCfg: &cfgCopy,
		ingester:  ingester,
		discovery: discovery,
		cache:     cache,
	}, nil
}

// RootDir returns the absolute project root.
func (c *ModelCache) RootDir() string {
	return c.rootDir
}

// ingestConfig returns the resolved ingest configuration, its root already
// absolute.
func (c *ModelCache) ingestConfig() *ingest.Config {
	return c.ingestCfg
}

// Get returns the loaded model for an absolute or root-relative path,
// ingesting it on first use.
func (c *ModelCache) Get(ctx context.Context, path string) (*LoadedModel, error) {
	key, rel, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	if lm, ok := c.cache.Get(key); ok {
		return lm, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have loaded it while we waited.
	if lm, ok := c.cache.Get(key); ok {
		return lm, nil
	}

	result, err := c.ingester.IngestFile(ctx, key)
	if err != nil {
		return nil, err
	}

	lm := &LoadedModel{
		Path:     key,
		Rel:      rel,
		Store:    result.Store,
		Searcher: result.Searcher,
		LoadedAt: time.Now(),
	}
	c.cache.Set(key, lm)
	logger.Debugf("Loaded model %s (%d entities)", rel, result.Store.Table().Len())
	return lm, nil
}

// Invalidate drops the cached entry for an absolute or root-relative model
// path. The next Get re-ingests the file.
func (c *ModelCache) Invalidate(path string) {
	key, rel, err := c.resolve(path)
	if err != nil {
		return
	}
	if c.cache.Has(key) {
		c.cache.Delete(key)
		logger.Debugf("Invalidated cached model %s", rel)
	}
}

// Len returns how many models are currently cached.
func (c *ModelCache) Len() int {
	return c.cache.Size()
}

// Close releases the cache and every held search index. Call only after the
// server stopped serving requests.
func (c *ModelCache) Close() error {
	c.cache.Range(func(_ string, lm *LoadedModel) bool {
		if lm.Searcher != nil {
			lm.Searcher.Close()
		}
		return true
	})
	c.cache.Close()
	return c.ingester.Close()
}

// resolve turns a model path into the absolute cache key and the
// root-relative display path, rejecting paths outside the project root and
// paths that do not name a model file.
func (c *ModelCache) resolve(path string) (string, string, error) {
	if path == "" {
		return "", "", fmt.Errorf("model path is empty")
	}

	p := filepath.FromSlash(path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.rootDir, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(c.rootDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("model path %s is outside the project root", path)
	}
	rel = filepath.ToSlash(rel)

	if !c.discovery.IsModelPath(rel) {
		return "", "", fmt.Errorf("%s does not match the configured model patterns", path)
	}

	return p, rel, nil
}
