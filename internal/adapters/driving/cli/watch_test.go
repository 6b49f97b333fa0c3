package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

func TestWatchCmd_ExistingFiles(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.pdf"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gear.pdf"), []byte("%PDF-1.4"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	calls := 0
	ts.analysis.analyzeFn = func(_ context.Context, s *domain.Session, req driving.AnalyzeRequest) (*domain.AnalysisResult, error) {
		calls++
		if calls == 2 {
			defer cancel()
			return nil, domain.ErrNoText
		}
		s.Select(req.Path)
		return &domain.AnalysisResult{Report: &domain.Report{ID: 11, Version: 1}}, nil
	}

	out, errOut, err := executeCommandContext(t, ctx, "watch", dir, "--existing", "--method", domain.MethodBowtie)

	require.NoError(t, err)
	assert.Contains(t, out, "Watching "+dir)
	assert.Contains(t, out, "✓ engine.pdf: stored as report 11 (version 1)")
	assert.Contains(t, errOut, "✗ gear.pdf: "+domain.ErrNoText.Error())
	assert.Equal(t, domain.MethodBowtie, ts.analysis.lastRequest.Method)
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "", "watch", "/non/existent/inbox")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch dir error")
}
