package cli

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/watch"
)

var (
	watchMethod   string
	watchLanguage string
	watchNoSave   bool
	watchExisting bool
	watchSettle   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Analyse PDFs as they arrive in a directory",
	Long: `Watches a directory and analyses every PDF copied into it, one at a time.
Each analysis is stored like one started with 'safety analyze'.

Press Ctrl+C to stop.

Example:
  safety watch ~/inbox --method Bowtie --existing`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchMethod, "method", "m", "", "analysis method (default from settings)")
	watchCmd.Flags().StringVarP(&watchLanguage, "language", "l", "", "output language (default from settings)")
	watchCmd.Flags().BoolVar(&watchNoSave, "no-save", false, "do not store the reports")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also analyse PDFs already in the directory")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "wait for writes to stop before analysing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	w := watch.New(args[0], analysisService, watch.Options{
		Method:   watchMethod,
		Language: watchLanguage,
		NoSave:   watchNoSave,
		Existing: watchExisting,
		Settle:   watchSettle,
	})
	defer w.Close()

	cmd.Printf("Watching %s for new PDFs (Ctrl+C to stop)\n", args[0])

	return w.Run(cmd.Context(), func(o watch.Outcome) {
		name := filepath.Base(o.Path)
		switch {
		case o.Err != nil:
			cmd.PrintErrf("✗ %s: %v\n", name, o.Err)
		case o.Result.StorageWarning != "":
			cmd.PrintErrf("! %s: analysed but not stored: %s\n", name, o.Result.StorageWarning)
		case o.Result.Report != nil:
			cmd.Printf("✓ %s: stored as report %d (version %d)\n", name, o.Result.Report.ID, o.Result.Report.Version)
		default:
			cmd.Printf("✓ %s: analysed\n", name)
		}
	})
}
