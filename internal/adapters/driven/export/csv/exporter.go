// Package csv renders report sections as Section,Content rows.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes UTF-8 CSV.
type Exporter struct{}

// New creates a CSV exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns "csv".
func (e *Exporter) Format() string { return "csv" }

// ContentType returns the CSV MIME type.
func (e *Exporter) ContentType() string { return "text/csv; charset=utf-8" }

// Export writes a header row then one row per section. Meta is not written.
func (e *Exporter) Export(w io.Writer, _ driven.ExportMeta, sections []domain.Section) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Section", "Content"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, sec := range sections {
		if err := cw.Write([]string{sec.Title, sec.Content}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
