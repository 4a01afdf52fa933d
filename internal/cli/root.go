package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/logger"
)

var (
	quietFlag   bool
	verboseFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata - STEP/IFC model ingestion and query",
	Long: `Strata ingests STEP and IFC building models into queryable snapshots.

Model files are parsed into an entity table, a relationship graph, and the
spatial containment hierarchy. Properties, quantities, materials,
classifications, and document references resolve lazily per entity. The
result is served through this CLI and through an MCP server for LLM-powered
assistants.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Quiet keeps the no-op logger; errors still surface via RunE.
		if quietFlag {
			return nil
		}
		return logger.Initialize(verboseFlag, false)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}
