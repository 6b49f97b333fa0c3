package driven

import (
	"context"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// ReportStore persists reports with one current row per document key.
// Implementations provide no exclusivity between concurrent writers of the
// same key; the last writer wins.
type ReportStore interface {
	// Replace stores r as the new current row for r.DocKey. It computes
	// Version as one more than the highest stored version for the key,
	// removes every existing row for the key and inserts r with IsCurrent
	// set. ID and CreatedAt are assigned on r.
	Replace(ctx context.Context, r *domain.Report) error

	// FetchCurrent returns every current row in insertion order.
	// Rows without an embedding carry an empty vector.
	FetchCurrent(ctx context.Context) ([]*domain.Report, error)

	// Get retrieves a report by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.Report, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)
}
