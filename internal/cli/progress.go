package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/strata-bim/strata/internal/ingest"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet      bool
	phaseBar   *progressbar.ProgressBar
	startTime  time.Time
	totalFiles int
	doneFiles  int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	fmt.Println("Discovering model files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(modelFiles int) {
	if c.quiet {
		return
	}
	c.totalFiles = modelFiles
	fmt.Printf("Found %d model files\n\n", modelFiles)
}

func (c *CLIProgressReporter) OnFileStart(path string, size int64) {
	if c.quiet {
		return
	}
	c.doneFiles++
	// Percent-driven bar: ingestion reports 0-100 across its phases.
	c.phaseBar = progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("[%d/%d] %s", c.doneFiles, c.totalFiles, path)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnPhase(path, phase string, percent int) {
	if c.quiet || c.phaseBar == nil {
		return
	}
	c.phaseBar.Describe(fmt.Sprintf("[%d/%d] %s: %s", c.doneFiles, c.totalFiles, path, phase))
	c.phaseBar.Set(percent)
}

func (c *CLIProgressReporter) OnFileComplete(stats ingest.FileStats) {
	if c.quiet {
		return
	}
	if c.phaseBar != nil {
		c.phaseBar.Finish()
		c.phaseBar = nil
	}
	fmt.Printf("✓ %s: %s entities, %s edges, %d spatial nodes (%.2fs)\n",
		stats.Path, formatNumber(stats.Entities), formatNumber(stats.Edges),
		stats.SpatialNodes, stats.Elapsed.Seconds())
	if stats.Warnings > 0 {
		fmt.Printf("  %d parse warnings (rerun with --verbose for details)\n", stats.Warnings)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *ingest.Stats) {
	if c.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("✓ Ingestion complete: %d models, %s entities, %s edges in %.1fs\n",
		stats.Files, formatNumber(stats.TotalEntities), formatNumber(stats.TotalEdges),
		stats.Elapsed.Seconds())
	if stats.Failed > 0 {
		fmt.Printf("  %d files failed\n", stats.Failed)
	}
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Simple implementation for thousands/millions
	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
