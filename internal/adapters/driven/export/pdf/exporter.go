// Package pdf renders report sections as an A4 PDF document.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Page geometry in millimetres.
const (
	margin     = 20.0
	lineHeight = 5.5
)

// Exporter writes PDFs with gofpdf core fonts.
type Exporter struct{}

// New creates a PDF exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns "pdf".
func (e *Exporter) Format() string { return "pdf" }

// ContentType returns the PDF MIME type.
func (e *Exporter) ContentType() string { return "application/pdf" }

// Export writes a title, a meta line and one heading per section.
// Paragraphs are separated by blank lines in the section content.
func (e *Exporter) Export(w io.Writer, meta driven.ExportMeta, sections []domain.Section) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(latin1(s)) }

	doc.AddPage()

	title := meta.Title
	if title == "" {
		title = "Safety Report"
	}
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, text(title), "", 1, "C", false, 0, "")
	doc.Ln(4)

	source := meta.Source
	if source == "" {
		source = "-"
	}
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, lineHeight, text(fmt.Sprintf("Generated: %s  |  Source: %s", meta.GeneratedAt, source)), "", "L", false)
	doc.Ln(5)

	for _, sec := range sections {
		doc.SetFont("Helvetica", "B", 14)
		doc.MultiCell(0, 8, text(sec.Title), "", "L", false)
		doc.Ln(2)

		doc.SetFont("Helvetica", "", 10)
		for _, para := range strings.Split(sec.Content, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			doc.MultiCell(0, lineHeight, text(para), "", "L", false)
			doc.Ln(2)
		}
		doc.Ln(3)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// latin1 maps common typographic runes to ASCII and drops runes the core
// fonts cannot encode, such as the envelope glyphs.
func latin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '•', '◦', '▪':
			b.WriteByte('-')
		case '—', '–':
			b.WriteByte('-')
		case '‘', '’':
			b.WriteByte('\'')
		case '“', '”':
			b.WriteByte('"')
		case '≈':
			b.WriteByte('~')
		case '…':
			b.WriteString("...")
		default:
			if r <= 0xFF {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
