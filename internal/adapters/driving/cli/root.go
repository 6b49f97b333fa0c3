// Package cli provides the cobra command tree for the safety binary.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services wired by main.
var (
	analysisService       driving.AnalysisService
	reportService         driving.ReportService
	similarityService     driving.SimilarityService
	classificationService driving.ClassificationService
	exportService         driving.ExportService
	settingsService       driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "safety",
	Short: "Aviation safety report analyzer",
	Long: `Safety turns aviation safety report PDFs into structured root-cause
analyses, stores them with embeddings, finds similar past occurrences and
classifies them against the TC / SMS vocabulary.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline steps to stderr")
}

// Services holds the driving ports used by commands.
type Services struct {
	Analysis       driving.AnalysisService
	Reports        driving.ReportService
	Similarity     driving.SimilarityService
	Classification driving.ClassificationService
	Export         driving.ExportService
	Settings       driving.SettingsService
}

// SetServices installs the services used by commands.
func SetServices(s Services) {
	analysisService = s.Analysis
	reportService = s.Reports
	similarityService = s.Similarity
	classificationService = s.Classification
	exportService = s.Export
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
