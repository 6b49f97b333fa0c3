package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui"
	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// stubProgram replaces runProgram and captures the model it receives.
func stubProgram(t *testing.T) *tea.Model {
	t.Helper()
	var got tea.Model
	prev := runProgram
	runProgram = func(m tea.Model) error {
		got = m
		return nil
	}
	t.Cleanup(func() { runProgram = prev })
	return &got
}

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "interactive terminal user interface")
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	out, _, err := executeCommand(t, "", "tui", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "interactive terminal user interface")
	assert.Contains(t, out, "Controls:")
}

func TestTUICmd_UsesSettingsDefaults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Analysis.DefaultMethod = domain.MethodFaultTree
	ts.settings.settings.Analysis.DefaultLanguage = domain.LanguageFrench
	got := stubProgram(t)

	_, _, err := executeCommand(t, "", "tui", "engine.pdf")

	require.NoError(t, err)
	app, ok := (*got).(*tui.App)
	require.True(t, ok)
	assert.Equal(t, domain.MethodFaultTree, app.Session().Method)
	assert.Equal(t, domain.LanguageFrench, app.Session().Language)
}

func TestTUICmd_MissingAnalysisService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	analysisService = nil
	got := stubProgram(t)

	_, _, err := executeCommand(t, "", "tui")

	assert.ErrorIs(t, err, tui.ErrMissingAnalysisService)
	assert.Nil(t, *got)
}
