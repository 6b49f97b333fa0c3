package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

func gearMatch() domain.SimilarMatch {
	return domain.SimilarMatch{
		Report: &domain.Report{
			ID:        9,
			FileName:  "gear.pdf",
			DocKey:    "gear",
			Severity:  "Minor",
			Summary:   "Gear failed to retract.",
			Embedding: []float32{0.6, 0.8},
		},
		VectorScore: 0.9,
		Confidence:  0.6,
		Rationale:   "same actuator",
		FinalScore:  0.81,
	}
}

func TestSimilarCmd_NoMatches(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "### Summary\nGear issue.", "similar", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "No similar reports found.")
}

func TestSimilarCmd_Matches(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.similarity.matches = []domain.SimilarMatch{gearMatch()}

	out, _, err := executeCommand(t, "### Summary\nGear issue.", "similar", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] gear.pdf (score 0.81, vector 0.90, confidence 0.60)")
	assert.Contains(t, out, "Severity: Minor")
	assert.Contains(t, out, "Gear failed to retract.")
	assert.Contains(t, out, "Why: same actuator")
	assert.True(t, ts.similarity.lastOpts.Rerank)
	assert.Equal(t, 0, ts.similarity.lastOpts.Limit)
}

func TestSimilarCmd_Flags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "### Summary\nGear issue.", "similar", "-",
		"-n", "3", "--no-rerank", "-l", domain.LanguageFrench)

	require.NoError(t, err)
	assert.Equal(t, domain.SimilarOptions{Limit: 3, Language: domain.LanguageFrench}, ts.similarity.lastOpts)
}

func TestSimilarCmd_JSONOmitsEmbedding(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.similarity.matches = []domain.SimilarMatch{gearMatch()}

	out, _, err := executeCommand(t, "### Summary\nGear issue.", "similar", "-", "--json")

	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(out), "embedding")
	var got []matchJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ReportID)
	assert.Equal(t, "gear", got[0].DocKey)
	assert.InDelta(t, 0.81, got[0].FinalScore, 1e-9)
}

func TestSimilarCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.similarity.err = domain.ErrEmbeddingUnavailable

	_, _, err := executeCommand(t, "### Summary\nGear issue.", "similar", "-")

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
