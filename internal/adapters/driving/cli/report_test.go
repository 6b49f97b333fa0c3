package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

func storedReports() []*domain.Report {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []*domain.Report{
		{
			ID: 7, FileName: "engine.pdf", Method: domain.MethodFiveWhys, Language: domain.LanguageEnglish,
			Version: 2, Severity: "Major", CreatedAt: created,
			FullMarkdown: "### Summary\nFire on climb.", Embedding: []float32{1},
		},
		{
			ID: 8, FileName: "gear.pdf", Method: domain.MethodBowtie, Language: domain.LanguageEnglish,
			Version: 1, CreatedAt: created,
		},
	}
}

func TestReportListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "", "report", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No reports stored.")
}

func TestReportListCmd_Table(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.reports.reports = storedReports()

	out, _, err := executeCommand(t, "", "report", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "engine.pdf")
	assert.Contains(t, out, "2025-03-14 09:30")
	assert.Contains(t, out, "gear.pdf")
	assert.Contains(t, out, "(no embedding)")
}

func TestReportShowCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.reports.reports = storedReports()

	out, _, err := executeCommand(t, "", "report", "show", "7")

	require.NoError(t, err)
	assert.Contains(t, out, "engine.pdf")
	assert.Contains(t, out, "Fire on climb.")
	assert.Contains(t, out, "Report 7, version 2, created 2025-03-14 09:30")
}

func TestReportShowCmd_Errors(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.reports.reports = storedReports()

	_, _, err := executeCommand(t, "", "report", "show", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = executeCommand(t, "", "report", "show", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = executeCommand(t, "", "report", "show", "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportSaveCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "### Summary\nEdited.", "report", "save", "-",
		"--name", "engine.pdf (final)", "--language", domain.LanguageFrench)

	require.NoError(t, err)
	require.Len(t, ts.reports.inserted, 1)
	in := ts.reports.inserted[0]
	assert.Equal(t, "engine.pdf (final)", in.FileName)
	assert.Equal(t, domain.MethodFiveWhys, in.Method)
	assert.Equal(t, domain.LanguageFrench, in.Language)
	assert.Equal(t, "### Summary\nEdited.", in.Markdown)
	assert.Contains(t, out, "Stored engine.pdf (final) as report 1 (version 1)")
}

func TestReportSaveCmd_RequiresName(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "### Summary\nEdited.", "report", "save", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "name" not set`)
}

func TestReportSaveCmd_StorageError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.reports.err = domain.ErrStorage

	_, _, err := executeCommand(t, "### Summary\nEdited.", "report", "save", "-", "--name", "x.pdf")

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "Françai…", truncate("Français long", 8))
}
