package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

var (
	analyzeMethod   string
	analyzeLanguage string
	analyzeNoSave   bool
	analyzeClassify bool
	analyzeSimilar  bool
	analyzeExport   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Analyse a safety report PDF",
	Long: `Extracts the text of a safety report PDF, asks the LLM for a structured
root-cause analysis and stores the result with its embedding.

Methods: Five Whys, Fishbone, Bowtie, Fault Tree.
Languages: English, Français.

Examples:
  safety analyze report.pdf
  safety analyze report.pdf --method Bowtie --language Français --similar
  safety analyze report.pdf --classify --export report.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMethod, "method", "m", "", "analysis method (default from settings)")
	analyzeCmd.Flags().StringVarP(&analyzeLanguage, "language", "l", "", "output language (default from settings)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "do not store the report")
	analyzeCmd.Flags().BoolVar(&analyzeClassify, "classify", false, "classify the report and apply the result")
	analyzeCmd.Flags().BoolVar(&analyzeSimilar, "similar", false, "list similar stored reports")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "also export to this file (.pdf or .csv)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := cmd.Context()
	session := domain.NewSession("")

	result, err := analysisService.Analyze(ctx, session, driving.AnalyzeRequest{
		Path:     args[0],
		Method:   analyzeMethod,
		Language: analyzeLanguage,
		NoSave:   analyzeNoSave,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	display := result.Display
	if analyzeClassify {
		display, err = classifyAndApply(cmd, display, session.Classification)
		if err != nil {
			return err
		}
	}

	cmd.Println(display)

	switch {
	case result.StorageWarning != "":
		cmd.PrintErrf("Warning: report not stored: %s\n", result.StorageWarning)
	case result.Report != nil:
		cmd.Printf("\nStored as report %d (version %d)\n", result.Report.ID, result.Report.Version)
	}

	if analyzeSimilar {
		if err := printSimilar(cmd, display, domain.SimilarOptions{
			Rerank:   true,
			Language: result.Language,
		}); err != nil {
			return err
		}
	}

	if analyzeExport != "" {
		return exportToFile(cmd, display, formatFromPath(analyzeExport), analyzeExport, result.FileName)
	}
	return nil
}

// classifyAndApply proposes a classification and writes it into the report.
func classifyAndApply(cmd *cobra.Command, markdown string, current domain.Classification) (string, error) {
	if classificationService == nil {
		return "", errors.New("classification service not configured")
	}

	c, err := classificationService.Classify(cmd.Context(), markdown, current)
	if err != nil {
		return "", fmt.Errorf("classification failed: %w", err)
	}
	cmd.PrintErrf("Classification (%s): %s | %s | %s\n", c.Source, c.Occurrence, c.Severity, c.Probability)

	out, err := classificationService.Apply(markdown, c)
	if err != nil {
		return "", fmt.Errorf("applying classification: %w", err)
	}
	return out, nil
}

// readMarkdown reads a report from a file, or from stdin when path is "-".
func readMarkdown(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, path)
	}
	return text, nil
}

// formatFromPath derives an export format from a file extension.
func formatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
