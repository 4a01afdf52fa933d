package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strata-bim/strata/internal/ingest"
)

// loadModel ingests a single model file in memory for the query commands.
// No snapshot is written; withSearch controls search index construction.
// The caller owns the returned ingester and any searcher on the result.
func loadModel(ctx context.Context, modelArg string, withSearch bool) (*ingest.Result, ingest.Ingester, error) {
	absPath, err := filepath.Abs(modelArg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", modelArg, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, nil, fmt.Errorf("failed to read model file: %w", err)
	}

	cfg := ingest.DefaultConfig(filepath.Dir(absPath))
	cfg.SnapshotDir = ""
	cfg.SearchEnabled = withSearch

	ing, err := ingest.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create ingester: %w", err)
	}

	result, err := ing.IngestFile(ctx, absPath)
	if err != nil {
		ing.Close()
		return nil, nil, fmt.Errorf("failed to ingest %s: %w", filepath.Base(absPath), err)
	}
	return result, ing, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
