package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (STRATA_*)
// 2. Config file (.strata/config.yml or .strata/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, ".strata")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("STRATA")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., STRATA_INGEST_YIELD_EVERY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	v.BindEnv("ingest.yield_every")
	v.BindEnv("ingest.eager_tables")

	v.BindEnv("snapshot.location")

	v.BindEnv("search.enabled")
	v.BindEnv("search.max_results")

	v.BindEnv("mcp.max_models")
	v.BindEnv("mcp.model_ttl_minutes")

	v.BindEnv("watch.debounce_ms")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("ingest.yield_every", defaults.Ingest.YieldEvery)
	v.SetDefault("ingest.eager_tables", defaults.Ingest.EagerTables)

	v.SetDefault("paths.models", defaults.Paths.Models)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("snapshot.location", defaults.Snapshot.Location)

	v.SetDefault("search.enabled", defaults.Search.Enabled)
	v.SetDefault("search.max_results", defaults.Search.MaxResults)

	v.SetDefault("mcp.max_models", defaults.MCP.MaxModels)
	v.SetDefault("mcp.model_ttl_minutes", defaults.MCP.ModelTTLMinutes)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
