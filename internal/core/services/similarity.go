package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// Ensure SimilarityService implements the interface.
var _ driving.SimilarityService = (*SimilarityService)(nil)

// SimilarityService finds stored reports that resemble a query report.
type SimilarityService struct {
	store     driven.ReportStore
	embedding driven.EmbeddingService
	reranker  *Reranker
	limits    domain.AnalysisSettings
}

// NewSimilarityService creates a new similarity service.
// The embedding service and reranker are optional (can be nil).
func NewSimilarityService(
	store driven.ReportStore,
	embedding driven.EmbeddingService,
	reranker *Reranker,
	limits domain.AnalysisSettings,
) *SimilarityService {
	defaults := domain.DefaultAnalysisSettings()
	if limits.MaxQueryChars <= 0 {
		limits.MaxQueryChars = defaults.MaxQueryChars
	}
	if limits.SearchTopK <= 0 {
		limits.SearchTopK = defaults.SearchTopK
	}
	if limits.ResultsShown <= 0 {
		limits.ResultsShown = defaults.ResultsShown
	}
	return &SimilarityService{
		store:     store,
		embedding: embedding,
		reranker:  reranker,
		limits:    limits,
	}
}

// SearchSimilar ranks current reports against the query markdown. Without an
// embedding of the query the result is empty.
func (s *SimilarityService) SearchSimilar(
	ctx context.Context, queryMarkdown string, opts domain.SimilarOptions,
) ([]domain.SimilarMatch, error) {
	logger.Section("Similar Reports")

	if s.embedding == nil {
		logger.Warn("Similarity search skipped: %v", domain.ErrEmbeddingUnavailable)
		return []domain.SimilarMatch{}, nil
	}

	text := truncateRunes(domain.ComposeSimilarityText(queryMarkdown), s.limits.MaxQueryChars)
	if text == "" {
		return []domain.SimilarMatch{}, nil
	}

	vec, err := s.embedding.Embed(ctx, text)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return []domain.SimilarMatch{}, nil
	}
	query := Normalize(vec)

	candidates, err := s.store.FetchCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	logger.Debug("Scanning %d current reports", len(candidates))

	hits := TopK(query, candidates, s.limits.SearchTopK)

	exclude := opts.ExcludeDocKey
	if exclude == "" {
		exclude = domain.DocKey(domain.EnvelopeFileName(queryMarkdown))
	}
	hits = excludeDocKey(hits, exclude)

	limit := opts.Limit
	if limit <= 0 {
		limit = s.limits.ResultsShown
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	logger.Debug("%d candidates after self-match filter (excluded %q)", len(hits), exclude)

	var judgments []domain.Judgment
	if opts.Rerank && s.reranker.Enabled() {
		judgments = make([]domain.Judgment, len(hits))
		for i, h := range hits {
			judgments[i] = s.reranker.Judge(ctx, queryMarkdown, h.Report.FullMarkdown, opts.Language)
		}
	}

	return Blend(hits, judgments, s.limits.VectorWeight), nil
}

func excludeDocKey(hits []domain.ScoredReport, docKey string) []domain.ScoredReport {
	if docKey == "" {
		return hits
	}
	kept := hits[:0]
	for _, h := range hits {
		if h.Report.DocKey != docKey {
			kept = append(kept, h)
		}
	}
	return kept
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
