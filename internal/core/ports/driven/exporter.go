package driven

import (
	"io"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// ExportMeta is printed above exported sections.
type ExportMeta struct {
	Title       string
	Source      string
	GeneratedAt string
}

// Exporter renders report sections into a secondary document format.
type Exporter interface {
	// Format returns the format name, e.g. "pdf" or "csv".
	Format() string

	// ContentType returns the MIME type of the output.
	ContentType() string

	// Export writes the sections to w.
	Export(w io.Writer, meta ExportMeta, sections []domain.Section) error
}
