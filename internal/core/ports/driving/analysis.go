package driving

import (
	"context"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// AnalyzeRequest describes one document to analyse.
// Either Path or Data must be set; Name is required with Data.
type AnalyzeRequest struct {
	Path string
	Name string
	Data []byte

	Method   string
	Language string

	// NoSave skips persistence of the generated report.
	NoSave bool
}

// AnalysisService turns safety report PDFs into structured analyses.
type AnalysisService interface {
	// Analyze validates the input, extracts text, generates the report and
	// stores it. A storage failure is reported in the result, not as an error.
	Analyze(ctx context.Context, session *domain.Session, req AnalyzeRequest) (*domain.AnalysisResult, error)

	// Revise re-runs the analysis of the session's file with reviewer
	// feedback and keeps the result as the session's latest revision.
	Revise(ctx context.Context, session *domain.Session, feedback string) (string, error)

	// SaveRevision stores the latest revision under "<file> (final)".
	// Storage failures are returned.
	SaveRevision(ctx context.Context, session *domain.Session) (*domain.Report, error)
}
