package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/config"
	"github.com/strata-bim/strata/internal/ingest"
)

var (
	ingestSnapshotFlag string
	ingestEagerFlag    bool
	ingestWatchFlag    bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest model files into queryable snapshots",
	Long: `Ingest discovers STEP/IFC model files under a project directory and
parses each into a snapshot database.

The ingester:
  - Scans every record and classifies it by entity type
  - Builds the relationship graph and spatial containment hierarchy
  - Flattens property and quantity sets into queryable rows
  - Writes one SQLite snapshot per model under .strata/snapshots/

Examples:
  # Ingest the current directory
  strata ingest

  # Ingest a specific project directory
  strata ingest /path/to/project

  # Ingest with progress bars disabled
  strata ingest --quiet

  # Decode property tables up front instead of lazily
  strata ingest --eager

  # Keep running and re-ingest models as they change
  strata ingest --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestSnapshotFlag, "snapshot", "", "Write snapshots under this directory (default .strata/snapshots)")
	ingestCmd.Flags().BoolVar(&ingestEagerFlag, "eager", false, "Decode property and quantity tables during ingestion")
	ingestCmd.Flags().BoolVarP(&ingestWatchFlag, "watch", "w", false, "Watch for model changes and re-ingest incrementally")
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling ingestion...")
		cancel()
	}()

	rootDir, err := resolveRootDir(args)
	if err != nil {
		return err
	}

	// Load configuration from .strata/config.yml
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ingestConfig := cfg.ToIngestConfig(rootDir)
	if ingestSnapshotFlag != "" {
		ingestConfig.SnapshotDir = ingestSnapshotFlag
	}
	if ingestEagerFlag {
		ingestConfig.EagerTables = true
	}

	progress := NewCLIProgressReporter(quietFlag)
	ing, err := ingest.NewWithProgress(ingestConfig, progress)
	if err != nil {
		return fmt.Errorf("failed to create ingester: %w", err)
	}
	defer ing.Close()

	stats, err := ing.IngestAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ingestion cancelled")
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	// Print summary (if not quiet, OnComplete already printed it)
	if quietFlag {
		fmt.Printf("Ingested %d models (%s entities, %s edges) in %.2fs\n",
			stats.Files, formatNumber(stats.TotalEntities), formatNumber(stats.TotalEdges),
			stats.Elapsed.Seconds())
	}

	if ingestWatchFlag {
		if !quietFlag {
			fmt.Println("Watching for model changes (Ctrl+C to stop)...")
		}
		// Watch blocks until the context is cancelled.
		if err := ing.Watch(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("watch mode failed: %w", err)
		}
		if !quietFlag {
			fmt.Println("Watch stopped")
		}
	}

	return nil
}

// resolveRootDir picks the project root: the directory argument when given,
// the working directory otherwise.
func resolveRootDir(args []string) (string, error) {
	if len(args) == 0 {
		rootDir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return rootDir, nil
	}

	rootDir, err := filepath.Abs(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", args[0], err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", args[0])
	}
	return rootDir, nil
}
