package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

var (
	exportFormat string
	exportOutput string
	exportSource string
)

var exportCmd = &cobra.Command{
	Use:   "export <markdown-file|->",
	Short: "Export a report as PDF or CSV",
	Long: `Renders a report into a secondary format. Each "### " heading becomes
one section. Use -o - to write to stdout.

Examples:
  safety export report.md --format pdf -o report.pdf
  safety report show 3 | safety export - --format csv -o -`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: pdf or csv (default from -o extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout (required)")
	exportCmd.Flags().StringVar(&exportSource, "source", "", "source file name shown in the export header")
	_ = exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	markdown, err := readMarkdown(cmd, args[0])
	if err != nil {
		return err
	}

	format := exportFormat
	if format == "" {
		format = formatFromPath(exportOutput)
	}
	return exportToFile(cmd, markdown, format, exportOutput, exportSource)
}

// exportToFile renders markdown into path, or stdout for "-". A partially
// written file is removed on failure.
func exportToFile(cmd *cobra.Command, markdown, format, path, source string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	if format == "" {
		return fmt.Errorf("cannot infer export format, use --format (%s)", strings.Join(exportService.Formats(), ", "))
	}

	req := driving.ExportRequest{Markdown: markdown, Format: format, Source: source}

	if path == "-" {
		return exportService.Export(cmd.Context(), cmd.OutOrStdout(), req)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := exportService.Export(cmd.Context(), f, req); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	cmd.PrintErrf("Exported %s\n", path)
	return nil
}
