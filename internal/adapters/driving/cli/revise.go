package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

var (
	reviseFeedback string
	reviseMethod   string
	reviseLanguage string
	reviseSave     bool
)

var reviseCmd = &cobra.Command{
	Use:   "revise <pdf>",
	Short: "Re-run an analysis with reviewer feedback",
	Long: `Analyses the PDF, then runs the analysis again with the reviewer feedback
appended to the prompt. The revision is printed below the original with a
timestamped divider.

Use --save to store the revision as "<file> (final)", which replaces the
stored analysis of the same document.`,
	Args: cobra.ExactArgs(1),
	RunE: runRevise,
}

func init() {
	reviseCmd.Flags().StringVarP(&reviseFeedback, "feedback", "f", "", "reviewer feedback to incorporate (required)")
	reviseCmd.Flags().StringVarP(&reviseMethod, "method", "m", "", "analysis method (default from settings)")
	reviseCmd.Flags().StringVarP(&reviseLanguage, "language", "l", "", "output language (default from settings)")
	reviseCmd.Flags().BoolVar(&reviseSave, "save", false, "store the revision as the final version")
	_ = reviseCmd.MarkFlagRequired("feedback")
	rootCmd.AddCommand(reviseCmd)
}

func runRevise(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := cmd.Context()
	session := domain.NewSession("")

	if _, err := analysisService.Analyze(ctx, session, driving.AnalyzeRequest{
		Path:     args[0],
		Method:   reviseMethod,
		Language: reviseLanguage,
		NoSave:   true,
	}); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if _, err := analysisService.Revise(ctx, session, reviseFeedback); err != nil {
		return fmt.Errorf("revision failed: %w", err)
	}

	display, err := session.AppendRevision(time.Now())
	if err != nil {
		return err
	}
	cmd.Println(display)

	if !reviseSave {
		return nil
	}

	r, err := analysisService.SaveRevision(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to save revision: %w", err)
	}
	cmd.Printf("\nStored %s as report %d (version %d)\n", r.FileName, r.ID, r.Version)
	return nil
}
