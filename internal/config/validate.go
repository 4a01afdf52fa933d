package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidYieldEvery indicates a negative yield cadence
	ErrInvalidYieldEvery = errors.New("invalid yield cadence")

	// ErrEmptyModelPatterns indicates no model file patterns
	ErrEmptyModelPatterns = errors.New("empty model patterns")

	// ErrInvalidMaxResults indicates an invalid search result cap
	ErrInvalidMaxResults = errors.New("invalid max results")

	// ErrInvalidModelCache indicates invalid MCP model cache settings
	ErrInvalidModelCache = errors.New("invalid model cache settings")

	// ErrInvalidDebounce indicates an invalid watch debounce
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateIngest(&cfg.Ingest); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateSearch(&cfg.Search); err != nil {
		errs = append(errs, err)
	}

	if err := validateMCP(&cfg.MCP); err != nil {
		errs = append(errs, err)
	}

	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateIngest(cfg *IngestConfig) error {
	// Zero disables yielding; only negative cadences are meaningless.
	if cfg.YieldEvery < 0 {
		return fmt.Errorf("%w: yield_every cannot be negative, got %d", ErrInvalidYieldEvery, cfg.YieldEvery)
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	// Without model patterns nothing can ever be discovered or watched.
	if len(cfg.Models) == 0 {
		return fmt.Errorf("%w: at least one pattern required", ErrEmptyModelPatterns)
	}
	return nil
}

func validateSearch(cfg *SearchConfig) error {
	if cfg.MaxResults <= 0 {
		return fmt.Errorf("%w: max_results must be positive, got %d", ErrInvalidMaxResults, cfg.MaxResults)
	}
	return nil
}

func validateMCP(cfg *MCPConfig) error {
	var errs []error

	if cfg.MaxModels <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_models must be positive, got %d", ErrInvalidModelCache, cfg.MaxModels))
	}

	if cfg.ModelTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("%w: model_ttl_minutes must be positive, got %d", ErrInvalidModelCache, cfg.ModelTTLMinutes))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateWatch(cfg *WatchConfig) error {
	// Zero means act on every event immediately; negative is meaningless.
	if cfg.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.DebounceMS)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
