package driving

import (
	"context"
	"io"
)

// ExportRequest describes a report to export.
type ExportRequest struct {
	// Markdown is the displayed report; a presentation header is stripped.
	Markdown string

	// Format selects the exporter, e.g. "pdf" or "csv".
	Format string

	// Source names the analysed file in the export header.
	Source string
}

// ExportService renders reports into secondary formats.
type ExportService interface {
	// Export writes the rendered report to w.
	Export(ctx context.Context, w io.Writer, req ExportRequest) error

	// Formats lists the available export formats.
	Formats() []string

	// ContentType returns the MIME type of a format.
	ContentType(format string) string
}
