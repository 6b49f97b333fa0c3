package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// normEpsilon keeps Normalize finite for a zero vector.
const normEpsilon = 1e-9

// TopK ranks candidates by dot product with query. Both sides are expected
// to be unit-norm, so the score is cosine similarity. Candidates without an
// embedding are skipped, as are candidates embedded with a different number
// of dimensions than the query. Ties keep candidate order and at most k hits
// are returned. An empty query yields no hits.
func TopK(query []float32, candidates []*domain.Report, k int) []domain.ScoredReport {
	if len(query) == 0 || k <= 0 {
		return []domain.ScoredReport{}
	}

	scored := make([]domain.ScoredReport, 0, len(candidates))
	mismatched := 0
	for _, c := range candidates {
		if c == nil || !c.HasEmbedding() {
			continue
		}
		if len(c.Embedding) != len(query) {
			mismatched++
			continue
		}
		scored = append(scored, domain.ScoredReport{Report: c, Score: dot(query, c.Embedding)})
	}

	if mismatched > 0 {
		logger.Debug("Skipped %d reports embedded with a dimension other than %d", mismatched, len(query))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Normalize returns v scaled to unit L2 norm, v/(|v|+1e-9).
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot expects vectors of equal length.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
