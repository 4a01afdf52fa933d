package config

import (
	"path/filepath"

	"github.com/strata-bim/strata/internal/ingest"
)

// ToIngestConfig converts a Config to an ingest.Config.
// The rootDir parameter specifies the project root the model patterns are
// resolved against. An empty snapshot location falls back to
// .strata/snapshots under the root.
func (c *Config) ToIngestConfig(rootDir string) *ingest.Config {
	snapshotDir := c.Snapshot.Location
	if snapshotDir == "" {
		snapshotDir = filepath.Join(rootDir, ".strata", "snapshots")
	} else if !filepath.IsAbs(snapshotDir) {
		snapshotDir = filepath.Join(rootDir, snapshotDir)
	}

	return &ingest.Config{
		RootDir:        rootDir,
		ModelPatterns:  c.Paths.Models,
		IgnorePatterns: c.Paths.Ignore,
		YieldEvery:     c.Ingest.YieldEvery,
		EagerTables:    c.Ingest.EagerTables,
		SnapshotDir:    snapshotDir,
		SearchEnabled:  c.Search.Enabled,
		DebounceMS:     c.Watch.DebounceMS,
	}
}
