package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

var (
	reportSaveName     string
	reportSaveMethod   string
	reportSaveLanguage string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage stored reports",
	Long:  `List, show and store analysed safety reports.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current version of every report",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

var reportSaveCmd = &cobra.Command{
	Use:   "save <markdown-file|->",
	Short: "Store an edited report",
	Long: `Stores a report written or edited outside the analyzer. The stored row
becomes the current version of its document; earlier rows are removed.

Example:
  safety report save edited.md --name "incident-42.pdf (final)"`,
	Args: cobra.ExactArgs(1),
	RunE: runReportSave,
}

func init() {
	reportSaveCmd.Flags().StringVar(&reportSaveName, "name", "", "file name to store the report under (required)")
	reportSaveCmd.Flags().StringVarP(&reportSaveMethod, "method", "m", domain.MethodFiveWhys, "analysis method label")
	reportSaveCmd.Flags().StringVarP(&reportSaveLanguage, "language", "l", domain.LanguageEnglish, "report language")
	_ = reportSaveCmd.MarkFlagRequired("name")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportSaveCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	reports, err := reportService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		cmd.Println("No reports stored.")
		return nil
	}

	cmd.Printf("%-6s %-40s %-12s %-4s %-10s %s\n", "ID", "FILE", "METHOD", "VER", "SEVERITY", "CREATED")
	for _, r := range reports {
		searchable := ""
		if !r.HasEmbedding() {
			searchable = " (no embedding)"
		}
		cmd.Printf("%-6d %-40s %-12s %-4d %-10s %s%s\n",
			r.ID, truncate(r.FileName, 40), r.Method, r.Version, r.Severity,
			r.CreatedAt.UTC().Format("2006-01-02 15:04"), searchable)
	}
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: report id must be a positive integer", domain.ErrInvalidInput)
	}

	r, err := reportService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	cmd.Println(domain.WithEnvelope(r.FileName, r.Method, r.Language, r.FullMarkdown))
	cmd.Printf("\nReport %d, version %d, created %s\n", r.ID, r.Version, r.CreatedAt.UTC().Format("2006-01-02 15:04"))
	return nil
}

func runReportSave(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	markdown, err := readMarkdown(cmd, args[0])
	if err != nil {
		return err
	}

	r, err := reportService.Insert(cmd.Context(), domain.NewReport{
		FileName: reportSaveName,
		Method:   reportSaveMethod,
		Language: reportSaveLanguage,
		Markdown: markdown,
	})
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	cmd.Printf("Stored %s as report %d (version %d)\n", r.FileName, r.ID, r.Version)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
