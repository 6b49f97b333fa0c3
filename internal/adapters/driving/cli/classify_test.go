package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

func fireClassification() domain.Classification {
	return domain.Classification{
		Occurrence:  "Fire/smoke (non-impact)",
		Severity:    "Major",
		Probability: "Remote",
		Source:      "llm",
	}
}

func TestClassifyCmd_Plain(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classification.result = fireClassification()

	out, _, err := executeCommand(t, "### Summary\nSmoke in cabin.", "classify", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "Occurrence:       Fire/smoke (non-impact)")
	assert.Contains(t, out, "Risk Severity:    Major")
	assert.Contains(t, out, "Risk Probability: Remote")
	assert.Contains(t, out, "Source:           llm")
}

func TestClassifyCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classification.result = fireClassification()

	out, _, err := executeCommand(t, "### Summary\nSmoke in cabin.", "classify", "-", "--json")

	require.NoError(t, err)
	var got domain.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, fireClassification(), got)
}

func TestClassifyCmd_Apply(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classification.result = fireClassification()

	out, errOut, err := executeCommand(t, "### Summary\nSmoke in cabin.", "classify", "-", "--apply")

	require.NoError(t, err)
	assert.Contains(t, out, "Smoke in cabin.\n\n### Risk Severity\nMajor")
	assert.Contains(t, errOut, "Classification (llm)")
}

func TestClassifyCmd_EmptyInput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "   \n", "classify", "-")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClassifyCmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "", "classify", "/nonexistent/report.md")

	assert.Error(t, err)
}

func TestClassifyCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classification.err = errors.New("quota exceeded")

	_, _, err := executeCommand(t, "### Summary\nx", "classify", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "classification failed: quota exceeded")
}
