package driving

import (
	"context"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// ClassificationService maps reports onto the controlled vocabulary.
type ClassificationService interface {
	// Classify proposes a classification for the report and merges it into
	// current. Values outside the vocabulary keep the current value.
	Classify(ctx context.Context, markdown string, current domain.Classification) (domain.Classification, error)

	// Apply writes the classification into the report, keeping any
	// presentation header. Values must be in the vocabulary.
	Apply(markdown string, c domain.Classification) (string, error)
}
