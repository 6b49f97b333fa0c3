package driving

import (
	"context"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// ReportService stores and retrieves analysed reports.
type ReportService interface {
	// Insert derives sections and the embedding of in and stores it as the
	// new current version of its document.
	Insert(ctx context.Context, in domain.NewReport) (*domain.Report, error)

	// List returns all current reports.
	List(ctx context.Context) ([]*domain.Report, error)

	// Get retrieves a report by ID.
	Get(ctx context.Context, id int64) (*domain.Report, error)
}
