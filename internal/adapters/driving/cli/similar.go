package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

var (
	similarLimit    int
	similarNoRerank bool
	similarJSON     bool
	similarLanguage string
)

// matchJSON is the --json form of a match; embeddings are left out.
type matchJSON struct {
	ReportID    int64   `json:"report_id"`
	FileName    string  `json:"file_name"`
	DocKey      string  `json:"doc_key"`
	Severity    string  `json:"severity,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	VectorScore float64 `json:"vector_score"`
	Confidence  float64 `json:"confidence"`
	Rationale   string  `json:"rationale,omitempty"`
	FinalScore  float64 `json:"final_score"`
}

var similarCmd = &cobra.Command{
	Use:   "similar <markdown-file|->",
	Short: "Find stored reports similar to an analysis",
	Long: `Ranks the stored reports by cosine similarity of their summary and
corrective actions to the given analysis. When an LLM is configured each
candidate is also judged and the final score blends both signals.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "maximum number of matches (default from settings)")
	similarCmd.Flags().BoolVar(&similarNoRerank, "no-rerank", false, "rank by vector similarity only")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output matches as JSON")
	similarCmd.Flags().StringVarP(&similarLanguage, "language", "l", "", "language of the rationale text")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	markdown, err := readMarkdown(cmd, args[0])
	if err != nil {
		return err
	}

	return printSimilar(cmd, markdown, domain.SimilarOptions{
		Limit:    similarLimit,
		Rerank:   !similarNoRerank,
		Language: similarLanguage,
	})
}

func printSimilar(cmd *cobra.Command, markdown string, opts domain.SimilarOptions) error {
	if similarityService == nil {
		return errors.New("similarity service not configured")
	}

	matches, err := similarityService.SearchSimilar(cmd.Context(), markdown, opts)
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}

	if similarJSON {
		out := make([]matchJSON, len(matches))
		for i, m := range matches {
			out[i] = matchJSON{
				ReportID:    m.Report.ID,
				FileName:    m.Report.FileName,
				DocKey:      m.Report.DocKey,
				Severity:    m.Report.Severity,
				Summary:     m.Report.Summary,
				VectorScore: m.VectorScore,
				Confidence:  m.Confidence,
				Rationale:   m.Rationale,
				FinalScore:  m.FinalScore,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal matches: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		cmd.Println("No similar reports found.")
		return nil
	}

	cmd.Println()
	cmd.Println("Similar reports:")
	for i, m := range matches {
		cmd.Printf("  [%d] %s (score %.2f, vector %.2f, confidence %.2f)\n",
			i+1, m.Report.FileName, m.FinalScore, m.VectorScore, m.Confidence)
		if m.Report.Severity != "" {
			cmd.Printf("      Severity: %s\n", m.Report.Severity)
		}
		if m.Report.Summary != "" {
			cmd.Printf("      %s\n", m.Report.Summary)
		}
		if m.Rationale != "" {
			cmd.Printf("      Why: %s\n", m.Rationale)
		}
	}
	return nil
}
