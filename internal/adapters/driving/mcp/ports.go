package mcp

import (
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Similarity ranks stored reports against a query report.
	Similarity driving.SimilarityService

	// Reports lists and reads stored reports.
	Reports driving.ReportService

	// Classification maps a report onto the occurrence and risk vocabulary.
	Classification driving.ClassificationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Similarity == nil {
		return ErrMissingSimilarityService
	}
	if p.Reports == nil {
		return ErrMissingReportService
	}
	// Classification is optional; the tool reports it as disabled.
	return nil
}
