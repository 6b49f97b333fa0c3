package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// exportTitle heads every exported document.
const exportTitle = "Safety Report"

// ExportService renders reports through the registered exporters.
type ExportService struct {
	exporters map[string]driven.Exporter
	now       func() time.Time
}

// NewExportService creates an export service over the given exporters.
func NewExportService(exporters ...driven.Exporter) *ExportService {
	m := make(map[string]driven.Exporter, len(exporters))
	for _, e := range exporters {
		m[strings.ToLower(e.Format())] = e
	}
	return &ExportService{exporters: m, now: time.Now}
}

// Export writes the rendered report to w. The presentation header is
// removed and its file name used as the source when none is given.
func (s *ExportService) Export(_ context.Context, w io.Writer, req driving.ExportRequest) error {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	exporter, ok := s.exporters[format]
	if !ok {
		return fmt.Errorf("%w: %q (available: %s)", domain.ErrUnsupportedFormat, req.Format, strings.Join(s.Formats(), ", "))
	}

	body := domain.StripEnvelope(req.Markdown)
	if body == "" {
		return fmt.Errorf("%w: nothing to export", domain.ErrInvalidInput)
	}

	sections := domain.SplitSections(body)
	if len(sections) == 0 {
		sections = []domain.Section{{Title: domain.DefaultSectionTitle, Content: body}}
	}

	source := req.Source
	if source == "" {
		source = domain.EnvelopeFileName(req.Markdown)
	}

	meta := driven.ExportMeta{
		Title:       exportTitle,
		Source:      source,
		GeneratedAt: s.now().Format("2006-01-02 15:04"),
	}
	if err := exporter.Export(w, meta, sections); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// Formats lists the available export formats in sorted order.
func (s *ExportService) Formats() []string {
	formats := make([]string, 0, len(s.exporters))
	for f := range s.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// ContentType returns the MIME type of a format, or "" when unknown.
func (s *ExportService) ContentType(format string) string {
	if e, ok := s.exporters[strings.ToLower(format)]; ok {
		return e.ContentType()
	}
	return ""
}
