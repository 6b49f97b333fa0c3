package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui"
)

// runProgram runs a bubbletea model. Replaced in tests.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [pdf]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for analysing safety reports.

Type or drop a PDF path, pick the method and language, and read the
analysis in a scrollable pane. Classification, similar-report search and
reviewer feedback run from the same screen.

Controls:
  Enter        - Analyse / Send feedback
  Tab, m       - Cycle analysis method
  Shift+Tab, l - Cycle output language
  o            - Open another PDF
  c / a        - Classify / Apply classification
  s            - Similar reports
  f / w        - Feedback / Save final version
  ?            - Toggle help
  q            - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("TUI crashed")
		}
	}()

	ports := &tui.Ports{
		Analysis:       analysisService,
		Similarity:     similarityService,
		Classification: classificationService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			app.WithDefaults(settings.Analysis.DefaultMethod, settings.Analysis.DefaultLanguage)
		}
	}
	if len(args) == 1 {
		app.WithFile(args[0])
	}

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
