package ingest

// ProgressReporter provides callbacks for reporting ingestion progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when model file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when model file discovery finishes.
	OnDiscoveryComplete(modelFiles int)

	// OnFileStart is called before a model file is ingested.
	OnFileStart(path string, size int64)

	// OnPhase is called as the ingestion pass moves through its phases.
	OnPhase(path, phase string, percent int)

	// OnFileComplete is called after a model file has been ingested.
	OnFileComplete(stats FileStats)

	// OnComplete is called when a whole ingestion run finishes.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                        {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(modelFiles int)       {}
func (n *NoOpProgressReporter) OnFileStart(path string, size int64)      {}
func (n *NoOpProgressReporter) OnPhase(path, phase string, percent int)  {}
func (n *NoOpProgressReporter) OnFileComplete(stats FileStats)           {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                  {}
