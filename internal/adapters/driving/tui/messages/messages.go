// Package messages defines Bubbletea message types for the TUI.
// Long-running commands work on a copy of the session and hand it back in
// their completion message; the model adopts it in Update.
package messages

import (
	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// AnalysisCompleted carries the outcome of analysing a PDF.
type AnalysisCompleted struct {
	Session *domain.Session
	Result  *domain.AnalysisResult
	Err     error
}

// ClassificationCompleted carries a proposed classification.
type ClassificationCompleted struct {
	Classification domain.Classification
	Err            error
}

// SimilarCompleted carries similar stored reports.
type SimilarCompleted struct {
	Matches []domain.SimilarMatch
	Err     error
}

// RevisionCompleted carries the session with the feedback revision appended
// to its displayed report.
type RevisionCompleted struct {
	Session *domain.Session
	Err     error
}

// RevisionSaved signals the latest revision was stored.
type RevisionSaved struct {
	Report *domain.Report
	Err    error
}

// Focus identifies which part of the screen receives keys.
type Focus int

const (
	// FocusReport scrolls the report and triggers actions.
	FocusReport Focus = iota
	// FocusPath edits the PDF path.
	FocusPath
	// FocusFeedback edits reviewer feedback.
	FocusFeedback
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusReport:
		return "report"
	case FocusPath:
		return "path"
	case FocusFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}
