// Package config provides configuration loading for strata.
//
// Configuration is project-scoped, loaded from .strata/config.yml in the
// project root with environment variable overrides.
//
// Configuration hierarchy (highest to lowest priority):
//  1. Environment variables (STRATA_*)
//  2. Project config (.strata/config.yml)
//  3. Built-in defaults
//
// Environment variable convention:
//   - Prefix: STRATA_
//   - Nested fields: use underscores (STRATA_INGEST_YIELD_EVERY)
//   - Automatic mapping via Viper's SetEnvKeyReplacer
package config

// Config represents the complete strata configuration.
// It can be loaded from .strata/config.yml with environment variable overrides.
type Config struct {
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	MCP      MCPConfig      `yaml:"mcp" mapstructure:"mcp"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// IngestConfig tunes the ingestion pass.
type IngestConfig struct {
	YieldEvery  int  `yaml:"yield_every" mapstructure:"yield_every"`   // records between cooperative yields, 0 disables
	EagerTables bool `yaml:"eager_tables" mapstructure:"eager_tables"` // decode property/quantity tables up front
}

// PathsConfig defines which files are treated as models and which to ignore.
type PathsConfig struct {
	Models []string `yaml:"models" mapstructure:"models"` // glob patterns for model files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// SnapshotConfig defines where ingestion snapshots are written.
type SnapshotConfig struct {
	Location string `yaml:"location" mapstructure:"location"` // override default .strata/snapshots
}

// SearchConfig configures the in-memory entity search index.
type SearchConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`         // build a search index per ingested model
	MaxResults int  `yaml:"max_results" mapstructure:"max_results"` // cap on hits per query
}

// MCPConfig configures the MCP server's model cache.
type MCPConfig struct {
	MaxModels       int `yaml:"max_models" mapstructure:"max_models"`               // models held in memory at once
	ModelTTLMinutes int `yaml:"model_ttl_minutes" mapstructure:"model_ttl_minutes"` // idle minutes before a model is evicted
}

// WatchConfig configures file watching.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before a change is acted on
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			YieldEvery:  10000,
			EagerTables: false,
		},
		Paths: PathsConfig{
			Models: []string{
				"**/*.ifc",
				"**/*.stp",
				"**/*.step",
			},
			Ignore: []string{
				".git/**",
				".strata/**",
				"node_modules/**",
				"backup/**",
				"*.bak",
			},
		},
		Snapshot: SnapshotConfig{
			Location: "", // Empty means use default .strata/snapshots
		},
		Search: SearchConfig{
			Enabled:    true,
			MaxResults: 50,
		},
		MCP: MCPConfig{
			MaxModels:       4,
			ModelTTLMinutes: 30,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// GetModelExtensions extracts unique file extensions from the model patterns.
// Returns extensions with leading dot (e.g., []string{".ifc", ".stp"}).
func (c *Config) GetModelExtensions() []string {
	extMap := make(map[string]bool)

	for _, pattern := range c.Paths.Models {
		if ext := extractExtension(pattern); ext != "" {
			extMap[ext] = true
		}
	}

	extensions := make([]string, 0, len(extMap))
	for ext := range extMap {
		extensions = append(extensions, ext)
	}

	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.ifc" -> ".ifc", "*.stp" -> ".stp"
func extractExtension(pattern string) string {
	// Find the last occurrence of *.ext pattern
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
