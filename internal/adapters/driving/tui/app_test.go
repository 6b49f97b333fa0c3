package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

func newTestPorts() *Ports {
	return &Ports{
		Analysis:       &MockAnalysisService{},
		Similarity:     &MockSimilarityService{},
		Classification: &MockClassificationService{},
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

// analyse drives the app through a successful analysis.
func analyse(t *testing.T, app *App) {
	t.Helper()
	app.WithFile("/tmp/engine.pdf")
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, messages.FocusReport, app.Focus())
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.FocusPath, app.Focus())
	assert.False(t, app.Busy())
	assert.Equal(t, domain.MethodFiveWhys, app.Session().Method)
	assert.Equal(t, domain.LanguageEnglish, app.Session().Language)
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Similarity: &MockSimilarityService{}})

	assert.ErrorIs(t, err, ErrMissingAnalysisService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_WithDefaults(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	app.WithDefaults(domain.MethodBowtie, domain.LanguageFrench)
	assert.Equal(t, domain.MethodBowtie, app.Session().Method)
	assert.Equal(t, domain.LanguageFrench, app.Session().Language)

	app.WithDefaults("Tarot", "Klingon")
	assert.Equal(t, domain.MethodBowtie, app.Session().Method)
	assert.Equal(t, domain.LanguageFrench, app.Session().Language)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Safety Analyzer")
}

func TestApp_PathFocus_CyclesMethodAndLanguage(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.MethodFishbone, app.Session().Method)

	press(app, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, domain.LanguageFrench, app.Session().Language)

	press(app, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, domain.LanguageEnglish, app.Session().Language)
}

func TestApp_ReportFocus_CyclesMethod(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, messages.FocusReport, app.Focus())

	for range domain.AllMethods() {
		press(app, keyRune('m'))
	}

	assert.Equal(t, domain.MethodFiveWhys, app.Session().Method)
}

func TestApp_Analyze_EmptyPath(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, app.Err(), domain.ErrNoFile)
	assert.False(t, app.Busy())
}

func TestApp_Analyze_Success(t *testing.T) {
	var got driving.AnalyzeRequest
	ports := newTestPorts()
	ports.Analysis = &MockAnalysisService{
		AnalyzeFunc: func(_ context.Context, s *domain.Session, req driving.AnalyzeRequest) (*domain.AnalysisResult, error) {
			got = req
			s.Select(req.Path)
			s.Report = "### Summary\nEngine fire on climb."
			return &domain.AnalysisResult{Report: &domain.Report{ID: 3, Version: 2}}, nil
		},
	}
	app := newTestApp(t, ports)
	app.WithFile(`'/tmp/engine.pdf'`)
	press(app, tea.KeyMsg{Type: tea.KeyTab})

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, app.Busy())

	msg := cmd()
	assert.Empty(t, app.Session().Report, "command must not touch the live session")

	app.Update(msg)

	assert.False(t, app.Busy())
	assert.Equal(t, "/tmp/engine.pdf", got.Path)
	assert.Equal(t, domain.MethodFishbone, got.Method)
	assert.Equal(t, messages.FocusReport, app.Focus())
	assert.Contains(t, app.Session().Report, "Engine fire")
	state, text := app.Status()
	assert.Equal(t, status.StateDone, state)
	assert.Equal(t, "Stored as report 3 (version 2)", text)
	assert.Contains(t, app.View(), "Engine fire on climb.")
}

func TestApp_Analyze_StorageWarning(t *testing.T) {
	ports := newTestPorts()
	ports.Analysis = &MockAnalysisService{
		AnalyzeFunc: func(_ context.Context, s *domain.Session, req driving.AnalyzeRequest) (*domain.AnalysisResult, error) {
			s.Select(req.Path)
			s.Report = "# Report"
			return &domain.AnalysisResult{StorageWarning: "disk full"}, nil
		},
	}
	app := newTestApp(t, ports)

	analyse(t, app)

	state, text := app.Status()
	assert.Equal(t, status.StateWarn, state)
	assert.Contains(t, text, "disk full")
}

func TestApp_Analyze_Error(t *testing.T) {
	ports := newTestPorts()
	ports.Analysis = &MockAnalysisService{
		AnalyzeFunc: func(context.Context, *domain.Session, driving.AnalyzeRequest) (*domain.AnalysisResult, error) {
			return nil, domain.ErrNotPDF
		},
	}
	app := newTestApp(t, ports)
	app.WithFile("/tmp/notes.txt")

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.False(t, app.Busy())
	assert.ErrorIs(t, app.Err(), domain.ErrNotPDF)
	assert.Equal(t, messages.FocusPath, app.Focus())
	state, _ := app.Status()
	assert.Equal(t, status.StateError, state)
}

func TestApp_IgnoresTriggersWhileBusy(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.WithFile("/tmp/engine.pdf")

	first := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	second := press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, first)
	assert.Nil(t, second)
	state, text := app.Status()
	assert.Equal(t, status.StateWarn, state)
	assert.Equal(t, ErrBusy.Error(), text)
}

func TestApp_Classify_NeedsReport(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	press(app, tea.KeyMsg{Type: tea.KeyEsc})

	cmd := press(app, keyRune('c'))

	assert.Nil(t, cmd)
	assert.ErrorIs(t, app.Err(), ErrNoReport)
}

func TestApp_Classify_Disabled(t *testing.T) {
	app := newTestApp(t, &Ports{Analysis: &MockAnalysisService{}})
	analyse(t, app)

	assert.Nil(t, press(app, keyRune('c')))
	assert.ErrorIs(t, app.Err(), ErrFeatureDisabled)

	assert.Nil(t, press(app, keyRune('s')))
	assert.ErrorIs(t, app.Err(), ErrFeatureDisabled)
}

func TestApp_ClassifyThenApply(t *testing.T) {
	proposed := domain.Classification{
		Occurrence:  "Fire/smoke (non-impact)",
		Severity:    "Major",
		Probability: "Remote",
		Source:      "keyword",
	}
	ports := newTestPorts()
	ports.Classification = &MockClassificationService{
		ClassifyFunc: func(context.Context, string, domain.Classification) (domain.Classification, error) {
			return proposed, nil
		},
	}
	app := newTestApp(t, ports)
	analyse(t, app)

	cmd := press(app, keyRune('c'))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, proposed, app.Session().Classification)
	assert.Contains(t, app.View(), "Risk Severity:    Major")

	press(app, keyRune('a'))

	assert.Contains(t, app.Session().Report, "applied Major")
	_, text := app.Status()
	assert.Equal(t, "Classification applied", text)
}

func TestApp_Apply_Error(t *testing.T) {
	ports := newTestPorts()
	ports.Classification = &MockClassificationService{
		ApplyFunc: func(string, domain.Classification) (string, error) {
			return "", domain.ErrInvalidInput
		},
	}
	app := newTestApp(t, ports)
	analyse(t, app)
	before := app.Session().Report

	press(app, keyRune('a'))

	assert.ErrorIs(t, app.Err(), domain.ErrInvalidInput)
	assert.Equal(t, before, app.Session().Report)
}

func TestApp_Similar(t *testing.T) {
	var got domain.SimilarOptions
	ports := newTestPorts()
	ports.Similarity = &MockSimilarityService{
		SearchFunc: func(_ context.Context, _ string, opts domain.SimilarOptions) ([]domain.SimilarMatch, error) {
			got = opts
			return []domain.SimilarMatch{{
				Report:      &domain.Report{FileName: "gear.pdf", Severity: "Minor"},
				VectorScore: 0.9,
				Confidence:  0.5,
				FinalScore:  0.78,
				Rationale:   "same gear actuator",
			}}, nil
		},
	}
	app := newTestApp(t, ports)
	analyse(t, app)

	cmd := press(app, keyRune('s'))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.True(t, got.Rerank)
	assert.Equal(t, domain.LanguageEnglish, got.Language)
	view := app.View()
	assert.Contains(t, view, "gear.pdf")
	assert.Contains(t, view, "Why: same gear actuator")
	_, text := app.Status()
	assert.Equal(t, "1 similar reports", text)
}

func TestApp_Similar_Error(t *testing.T) {
	ports := newTestPorts()
	ports.Similarity = &MockSimilarityService{
		SearchFunc: func(context.Context, string, domain.SimilarOptions) ([]domain.SimilarMatch, error) {
			return nil, domain.ErrEmbeddingUnavailable
		},
	}
	app := newTestApp(t, ports)
	analyse(t, app)

	cmd := press(app, keyRune('s'))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrEmbeddingUnavailable)
	assert.False(t, app.Busy())
}

func TestApp_FeedbackReviseAndSave(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	analyse(t, app)

	assert.Nil(t, press(app, keyRune('w')))
	assert.ErrorIs(t, app.Err(), domain.ErrNoRevision)

	press(app, keyRune('f'))
	require.Equal(t, messages.FocusFeedback, app.Focus())
	app.feedback.SetValue("more detail on fuel")

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.FocusReport, app.Focus())
	assert.Equal(t, "revised: more detail on fuel", app.Session().LatestRevision)
	assert.Contains(t, app.Session().Report, "Updated version")
	assert.Empty(t, app.feedback.Value())

	cmd = press(app, keyRune('w'))
	require.NotNil(t, cmd)
	app.Update(cmd())

	_, text := app.Status()
	assert.Equal(t, "Stored engine.pdf (final) as report 1 (version 1)", text)
}

func TestApp_Revise_Error(t *testing.T) {
	ports := newTestPorts()
	ports.Analysis = &MockAnalysisService{
		ReviseFunc: func(context.Context, *domain.Session, string) (string, error) {
			return "", errors.New("llm down")
		},
	}
	app := newTestApp(t, ports)
	analyse(t, app)
	before := app.Session().Report

	press(app, keyRune('f'))
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.EqualError(t, app.Err(), "llm down")
	assert.Equal(t, before, app.Session().Report)
	assert.Equal(t, messages.FocusFeedback, app.Focus())
}

func TestApp_Feedback_NeedsReport(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	press(app, tea.KeyMsg{Type: tea.KeyEsc})

	press(app, keyRune('f'))

	assert.ErrorIs(t, app.Err(), ErrNoReport)
	assert.Equal(t, messages.FocusReport, app.Focus())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	press(app, tea.KeyMsg{Type: tea.KeyEsc})

	cmd := press(app, keyRune('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_CtrlCQuitsWhileTyping(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	require.Equal(t, messages.FocusPath, app.Focus())

	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QDoesNotQuitWhileTyping(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	press(app, keyRune('q'))

	assert.Equal(t, messages.FocusPath, app.Focus())
	assert.Equal(t, "q", app.path.Value())
}

func TestApp_OpenAndHelp(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	analyse(t, app)

	press(app, keyRune('?'))
	assert.Contains(t, app.View(), "open pdf")

	press(app, keyRune('?'))
	assert.NotContains(t, app.View(), "open pdf")

	press(app, keyRune('o'))
	assert.Equal(t, messages.FocusPath, app.Focus())
}
