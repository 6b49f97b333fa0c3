// Package tui provides an interactive terminal interface for analysing
// safety reports. It implements a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Analysis runs analyses and revisions. Required.
	Analysis driving.AnalysisService

	// Similarity finds similar stored reports. Optional.
	Similarity driving.SimilarityService

	// Classification proposes and applies classifications. Optional.
	Classification driving.ClassificationService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
