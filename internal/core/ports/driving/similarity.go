package driving

import (
	"context"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// SimilarityService finds stored reports that resemble a query report.
type SimilarityService interface {
	// SearchSimilar ranks current reports against the query markdown.
	// It returns an empty result, not an error, when no embedding is available.
	SearchSimilar(ctx context.Context, queryMarkdown string, opts domain.SimilarOptions) ([]domain.SimilarMatch, error)
}
