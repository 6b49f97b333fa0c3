package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

var (
	classifyApply bool
	classifyJSON  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <markdown-file|->",
	Short: "Classify a report against the TC / SMS vocabulary",
	Long: `Proposes an occurrence category, risk severity and risk probability for
an analysis. The LLM is asked first; without it, or when its answer cannot be
used, a keyword rule decides.

Use --apply to print the report with the classification sections written in.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyApply, "apply", false, "print the report with the classification applied")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output the classification as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classificationService == nil {
		return errors.New("classification service not configured")
	}

	markdown, err := readMarkdown(cmd, args[0])
	if err != nil {
		return err
	}

	if classifyApply {
		out, err := classifyAndApply(cmd, markdown, domain.DefaultClassification())
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	}

	c, err := classificationService.Classify(cmd.Context(), markdown, domain.DefaultClassification())
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if classifyJSON {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal classification: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Occurrence:       %s\n", c.Occurrence)
	cmd.Printf("Risk Severity:    %s\n", c.Severity)
	cmd.Printf("Risk Probability: %s\n", c.Probability)
	cmd.Printf("Source:           %s\n", c.Source)
	return nil
}
