package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/config"
	"github.com/strata-bim/strata/internal/ingest"
	"github.com/strata-bim/strata/internal/storage"
)

var inspectJSONFlag bool

// Entity types shown before the list is elided.
const inspectTopTypes = 15

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot|model>",
	Short: "Summarize an ingested snapshot",
	Long: `Inspect reads a snapshot database and prints what it holds: source model,
schema version, length scale, row counts, and the most frequent entity types.

The argument is either a snapshot .db file or a model path, which resolves
to its snapshot under the configured snapshot directory.

Examples:
  # Inspect by model path
  strata inspect models/building.ifc

  # Inspect a snapshot file directly
  strata inspect .strata/snapshots/models__building.ifc.db

  # Machine-readable output
  strata inspect models/building.ifc --json
`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSONFlag, "json", false, "Print as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	snapshotPath, err := resolveSnapshotPath(rootDir, args[0])
	if err != nil {
		return err
	}

	reader, err := storage.NewReader(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer reader.Close()

	summary, err := reader.Summary()
	if err != nil {
		return fmt.Errorf("failed to read snapshot summary: %w", err)
	}

	if inspectJSONFlag {
		return printJSON(summary)
	}

	fmt.Printf("Snapshot: %s\n", filepath.Base(snapshotPath))
	fmt.Printf("Source:   %s\n", summary.SourcePath)
	fmt.Printf("Schema:   %s\n", summary.Schema)
	fmt.Printf("Scale:    %g\n", summary.LengthScale)
	fmt.Printf("Created:  %s\n", summary.CreatedAt)
	fmt.Println()
	fmt.Printf("Entities:      %s\n", formatNumber(summary.Entities))
	fmt.Printf("Relationships: %s\n", formatNumber(summary.Relationships))
	fmt.Printf("Spatial nodes: %s\n", formatNumber(summary.SpatialNodes))
	fmt.Printf("Property rows: %s\n", formatNumber(summary.PropertyRows))

	if len(summary.TypeCounts) > 0 {
		fmt.Println("\nTop types:")
		shown := summary.TypeCounts
		if len(shown) > inspectTopTypes {
			shown = shown[:inspectTopTypes]
		}
		width := 0
		for _, tc := range shown {
			if len(tc.Type) > width {
				width = len(tc.Type)
			}
		}
		for _, tc := range shown {
			fmt.Printf("  %-*s  %s\n", width, tc.Type, formatNumber(tc.Count))
		}
		if rest := len(summary.TypeCounts) - len(shown); rest > 0 {
			fmt.Printf("  (+%d more types)\n", rest)
		}
	}

	return nil
}

// resolveSnapshotPath maps the argument to a snapshot database: a .db path
// is taken as is, anything else is treated as a model path whose snapshot
// lives under the configured snapshot directory.
func resolveSnapshotPath(rootDir, arg string) (string, error) {
	if strings.HasSuffix(arg, ".db") {
		if _, err := os.Stat(arg); err != nil {
			return "", fmt.Errorf("failed to read snapshot %s: %w", arg, err)
		}
		return arg, nil
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	snapshotDir := cfg.ToIngestConfig(rootDir).SnapshotDir

	absArg, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	relPath, err := filepath.Rel(rootDir, absArg)
	if err != nil {
		relPath = arg
	}

	candidate := filepath.Join(snapshotDir, ingest.SnapshotName(filepath.ToSlash(relPath)))
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("no snapshot for %s (expected %s); run 'strata ingest' first", arg, candidate)
	}
	return candidate, nil
}
