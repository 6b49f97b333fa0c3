package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

func TestAnalyzeCmd_Success(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "", "analyze", "/tmp/engine.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "Fire on climb.")
	assert.Contains(t, out, "Stored as report 4 (version 1)")
	assert.Equal(t, "/tmp/engine.pdf", ts.analysis.lastRequest.Path)
	assert.Empty(t, ts.analysis.lastRequest.Method)
	assert.False(t, ts.analysis.lastRequest.NoSave)
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "", "analyze", "engine.pdf",
		"--method", domain.MethodBowtie, "-l", domain.LanguageFrench, "--no-save")

	require.NoError(t, err)
	req := ts.analysis.lastRequest
	assert.Equal(t, domain.MethodBowtie, req.Method)
	assert.Equal(t, domain.LanguageFrench, req.Language)
	assert.True(t, req.NoSave)
	assert.Contains(t, out, "Fire on climb.")
}

func TestAnalyzeCmd_StorageWarning(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.analyzeFn = func(_ context.Context, s *domain.Session, req driving.AnalyzeRequest) (*domain.AnalysisResult, error) {
		s.Select(req.Path)
		return &domain.AnalysisResult{Display: "# Report", StorageWarning: "database is locked"}, nil
	}

	out, errOut, err := executeCommand(t, "", "analyze", "engine.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "# Report")
	assert.NotContains(t, out, "Stored as report")
	assert.Contains(t, errOut, "Warning: report not stored: database is locked")
}

func TestAnalyzeCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.analysis.analyzeFn = func(context.Context, *domain.Session, driving.AnalyzeRequest) (*domain.AnalysisResult, error) {
		return nil, domain.ErrNotPDF
	}

	_, _, err := executeCommand(t, "", "analyze", "notes.txt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotPDF)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestAnalyzeCmd_RequiresArgument(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "", "analyze")

	assert.Error(t, err)
}

func TestAnalyzeCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	analysisService = nil

	_, _, err := executeCommand(t, "", "analyze", "engine.pdf")

	assert.EqualError(t, err, "analysis service not configured")
}

func TestAnalyzeCmd_ClassifyAndSimilar(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classification.result = domain.Classification{
		Occurrence:  "Fire/smoke (non-impact)",
		Severity:    "Major",
		Probability: "Remote",
		Source:      "keyword",
	}
	ts.similarity.matches = []domain.SimilarMatch{{
		Report:      &domain.Report{ID: 2, FileName: "apu.pdf"},
		VectorScore: 0.8,
		FinalScore:  0.56,
	}}

	out, errOut, err := executeCommand(t, "", "analyze", "engine.pdf", "--classify", "--similar")

	require.NoError(t, err)
	assert.Contains(t, out, "### Risk Severity\nMajor")
	assert.Contains(t, errOut, "Classification (keyword): Fire/smoke (non-impact) | Major | Remote")
	assert.Contains(t, out, "[1] apu.pdf (score 0.56, vector 0.80, confidence 0.00)")
	assert.True(t, ts.similarity.lastOpts.Rerank)
	assert.Equal(t, domain.LanguageEnglish, ts.similarity.lastOpts.Language)
	assert.Contains(t, ts.similarity.lastQuery, "### Risk Severity")
}

func TestAnalyzeCmd_Export(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	path := filepath.Join(t.TempDir(), "engine.csv")

	_, errOut, err := executeCommand(t, "", "analyze", "engine.pdf", "--export", path)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "csv:# Engine fire")
	assert.Equal(t, "engine.pdf", ts.export.lastReq.Source)
	assert.Contains(t, errOut, "Exported "+path)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"report.pdf":      "pdf",
		"REPORT.CSV":      "csv",
		"/tmp/a.b/report": "",
		"-":               "",
	}
	for path, want := range tests {
		assert.Equal(t, want, formatFromPath(path), path)
	}
}
