package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// chromeHeight is the number of lines used around the viewport.
const chromeHeight = 8

const emptyReportHint = "Enter the path of a safety report PDF and press enter.\n" +
	"tab cycles the analysis method, shift+tab the language."

// App is the TUI model following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	path      *input.Field
	feedback  *input.Field
	viewport  viewport.Model
	statusbar *status.Bar

	// session is replaced, never mutated, by completion messages.
	session *domain.Session

	focus    messages.Focus
	busy     bool
	showHelp bool

	// classified is set once session.Classification holds a proposal.
	classified bool

	// panel is shown below the report: classification or similar reports.
	panel string

	now func() time.Time
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		path:      input.NewField(s, "PDF", "path/to/report.pdf", 1024),
		feedback:  input.NewField(s, "Feedback", "what the revision should change", 2000),
		viewport:  viewport.New(80, 24-chromeHeight),
		statusbar: status.NewBar(s, km),
		session:   domain.NewSession(""),
		now:       time.Now,
	}
	a.setFocus(messages.FocusPath)
	a.refresh()

	return a, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithDefaults sets the initial method and language. Unknown values are ignored.
func (a *App) WithDefaults(method, language string) *App {
	if domain.IsMethod(method) {
		a.session.Method = method
	}
	if domain.IsLanguage(language) {
		a.session.Language = language
	}
	return a
}

// WithFile pre-fills the PDF path.
func (a *App) WithFile(path string) *App {
	a.path.SetValue(path)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("safety - report analyzer"),
		a.path.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnalysisCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.session = msg.Session
		a.classified = false
		a.panel = ""
		a.refresh()
		a.viewport.GotoTop()
		a.setFocus(messages.FocusReport)
		switch r := msg.Result; {
		case r.StorageWarning != "":
			a.statusbar.Set(status.StateWarn, "Analysis kept but not stored: "+r.StorageWarning)
		case r.Report != nil:
			a.statusbar.Set(status.StateDone, fmt.Sprintf("Stored as report %d (version %d)", r.Report.ID, r.Report.Version))
		default:
			a.statusbar.Set(status.StateDone, "Analysis ready")
		}
		return a, nil

	case messages.ClassificationCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.session.Classification = msg.Classification
		a.classified = true
		a.panel = a.renderClassification(msg.Classification)
		a.refresh()
		a.viewport.GotoBottom()
		a.statusbar.Set(status.StateDone, "Classification proposed, press a to apply")
		return a, nil

	case messages.SimilarCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.panel = a.renderMatches(msg.Matches)
		a.refresh()
		a.viewport.GotoBottom()
		a.statusbar.Set(status.StateDone, fmt.Sprintf("%d similar reports", len(msg.Matches)))
		return a, nil

	case messages.RevisionCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.session = msg.Session
		a.feedback.Reset()
		a.refresh()
		a.viewport.GotoBottom()
		a.setFocus(messages.FocusReport)
		a.statusbar.Set(status.StateDone, "Revision appended, press w to save it")
		return a, nil

	case messages.RevisionSaved:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.statusbar.Set(status.StateDone,
			fmt.Sprintf("Stored %s as report %d (version %d)", msg.Report.FileName, msg.Report.ID, msg.Report.Version))
		return a, nil
	}

	var cmd tea.Cmd
	if field := a.activeField(); field != nil {
		_, cmd = field.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	if a.focus != messages.FocusReport {
		return a.handleInputKey(msg)
	}
	return a.handleReportKey(msg)
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		a.setFocus(messages.FocusReport)
		return a, nil
	case tea.KeyEnter:
		if a.focus == messages.FocusPath {
			return a, a.startAnalysis()
		}
		return a, a.startRevision()
	case tea.KeyTab:
		if a.focus == messages.FocusPath {
			a.cycleMethod()
			return a, nil
		}
	case tea.KeyShiftTab:
		if a.focus == messages.FocusPath {
			a.cycleLanguage()
			return a, nil
		}
	}

	_, cmd := a.activeField().Update(msg)
	return a, cmd
}

func (a *App) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k, km := msg.String(), a.keymap

	switch {
	case keymap.Matches(k, km.Quit):
		return a, tea.Quit
	case keymap.Matches(k, km.Help):
		a.showHelp = !a.showHelp
		return a, nil
	case keymap.Matches(k, km.Open):
		a.setFocus(messages.FocusPath)
		return a, nil
	case keymap.Matches(k, km.Method):
		a.cycleMethod()
		return a, nil
	case keymap.Matches(k, km.Language):
		a.cycleLanguage()
		return a, nil
	case keymap.Matches(k, km.Classify):
		return a, a.startClassify()
	case keymap.Matches(k, km.Apply):
		a.applyClassification()
		return a, nil
	case keymap.Matches(k, km.Similar):
		return a, a.startSimilar()
	case keymap.Matches(k, km.Feedback):
		if a.session.Report == "" {
			a.setError(ErrNoReport)
			return a, nil
		}
		a.setFocus(messages.FocusFeedback)
		return a, nil
	case keymap.Matches(k, km.Save):
		return a, a.startSave()
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// claim marks the app busy. Triggers while busy are ignored.
func (a *App) claim(message string) bool {
	if a.busy {
		a.statusbar.Set(status.StateWarn, ErrBusy.Error())
		return false
	}
	a.busy = true
	a.statusbar.Set(status.StateBusy, message)
	return true
}

func (a *App) startAnalysis() tea.Cmd {
	path := strings.Trim(strings.TrimSpace(a.path.Value()), `"'`)
	if path == "" {
		a.setError(domain.ErrNoFile)
		return nil
	}
	session := a.sessionCopy()
	if !a.claim(fmt.Sprintf("Analysing %s (%s, %s)...", filepath.Base(path), session.Method, session.Language)) {
		return nil
	}

	svc, ctx := a.ports.Analysis, a.ctx
	return func() tea.Msg {
		result, err := svc.Analyze(ctx, session, driving.AnalyzeRequest{
			Path:     path,
			Method:   session.Method,
			Language: session.Language,
		})
		return messages.AnalysisCompleted{Session: session, Result: result, Err: err}
	}
}

func (a *App) startRevision() tea.Cmd {
	feedback := a.feedback.Value()
	session := a.sessionCopy()
	if !a.claim("Revising with feedback...") {
		return nil
	}

	svc, ctx, now := a.ports.Analysis, a.ctx, a.now
	return func() tea.Msg {
		if _, err := svc.Revise(ctx, session, feedback); err != nil {
			return messages.RevisionCompleted{Err: err}
		}
		if _, err := session.AppendRevision(now()); err != nil {
			return messages.RevisionCompleted{Err: err}
		}
		return messages.RevisionCompleted{Session: session}
	}
}

func (a *App) startSave() tea.Cmd {
	if a.session.LatestRevision == "" {
		a.setError(domain.ErrNoRevision)
		return nil
	}
	session := a.sessionCopy()
	if !a.claim("Saving revision...") {
		return nil
	}

	svc, ctx := a.ports.Analysis, a.ctx
	return func() tea.Msg {
		report, err := svc.SaveRevision(ctx, session)
		return messages.RevisionSaved{Report: report, Err: err}
	}
}

func (a *App) startClassify() tea.Cmd {
	if a.ports.Classification == nil {
		a.setError(ErrFeatureDisabled)
		return nil
	}
	if a.session.Report == "" {
		a.setError(ErrNoReport)
		return nil
	}
	markdown, current := a.session.Report, a.session.Classification
	if !a.claim("Classifying...") {
		return nil
	}

	svc, ctx := a.ports.Classification, a.ctx
	return func() tea.Msg {
		c, err := svc.Classify(ctx, markdown, current)
		return messages.ClassificationCompleted{Classification: c, Err: err}
	}
}

func (a *App) startSimilar() tea.Cmd {
	if a.ports.Similarity == nil {
		a.setError(ErrFeatureDisabled)
		return nil
	}
	if a.session.Report == "" {
		a.setError(ErrNoReport)
		return nil
	}
	markdown, language := a.session.Report, a.session.Language
	if !a.claim("Searching similar reports...") {
		return nil
	}

	svc, ctx := a.ports.Similarity, a.ctx
	return func() tea.Msg {
		matches, err := svc.SearchSimilar(ctx, markdown, domain.SimilarOptions{
			Rerank:   true,
			Language: language,
		})
		return messages.SimilarCompleted{Matches: matches, Err: err}
	}
}

// applyClassification writes the proposed values into the report. It needs
// no LLM and runs inline.
func (a *App) applyClassification() {
	if a.ports.Classification == nil {
		a.setError(ErrFeatureDisabled)
		return
	}
	if a.session.Report == "" {
		a.setError(ErrNoReport)
		return
	}
	if a.busy {
		a.statusbar.Set(status.StateWarn, ErrBusy.Error())
		return
	}

	out, err := a.ports.Classification.Apply(a.session.Report, a.session.Classification)
	if err != nil {
		a.setError(err)
		return
	}
	a.session.Report = out
	a.refresh()
	a.statusbar.Set(status.StateDone, "Classification applied")
}

func (a *App) cycleMethod() {
	a.session.Method = next(domain.AllMethods(), a.session.Method)
}

func (a *App) cycleLanguage() {
	a.session.Language = next(domain.AllLanguages(), a.session.Language)
}

func next(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (a *App) sessionCopy() *domain.Session {
	s := *a.session
	return &s
}

func (a *App) activeField() *input.Field {
	switch a.focus {
	case messages.FocusPath:
		return a.path
	case messages.FocusFeedback:
		return a.feedback
	case messages.FocusReport:
	}
	return nil
}

func (a *App) setFocus(f messages.Focus) {
	a.focus = f
	a.path.Blur()
	a.feedback.Blur()
	if field := a.activeField(); field != nil {
		field.Focus()
	}
	a.statusbar.SetTyping(f != messages.FocusReport)
}

func (a *App) setError(err error) {
	a.err = err
	a.statusbar.Set(status.StateError, err.Error())
}

// refresh rebuilds the viewport content from the session and panel.
func (a *App) refresh() {
	content := a.styles.Muted.Render(emptyReportHint)
	if a.session.Report != "" {
		content = a.styles.Markdown(a.session.Report)
	}
	if a.panel != "" {
		content += "\n\n" + a.panel
	}
	a.viewport.SetContent(content)
}

func (a *App) renderClassification(c domain.Classification) string {
	lines := []string{
		a.styles.Subtitle.Render("Proposed classification (" + c.Source + ")"),
		"Occurrence:       " + c.Occurrence,
		"Risk Severity:    " + c.Severity,
		"Risk Probability: " + c.Probability,
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderMatches(matches []domain.SimilarMatch) string {
	title := a.styles.Subtitle.Render("Similar reports")
	if len(matches) == 0 {
		return title + "\n" + a.styles.Muted.Render("No similar reports found.")
	}

	lines := []string{title}
	for i, m := range matches {
		lines = append(lines, fmt.Sprintf("[%d] %s  score %.2f (vector %.2f, confidence %.2f)",
			i+1, m.Report.FileName, m.FinalScore, m.VectorScore, m.Confidence))
		if m.Report.Severity != "" {
			lines = append(lines, "    Severity: "+m.Report.Severity)
		}
		if m.Report.Summary != "" {
			lines = append(lines, "    "+m.Report.Summary)
		}
		if m.Rationale != "" {
			lines = append(lines, "    Why: "+m.Rationale)
		}
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	badges := []string{
		a.styles.Title.Render("Safety Analyzer"),
		a.styles.Badge.Render("🧭 " + a.session.Method),
		a.styles.Badge.Render("🌐 " + a.session.Language),
	}
	if a.classified {
		c := a.session.Classification
		badges = append(badges, a.styles.Badge.Render(c.Occurrence+" | "+c.Severity+" | "+c.Probability))
	}

	sections := make([]string, 0, 6)
	sections = append(sections, strings.Join(badges, " "), "")

	if field := a.activeField(); field != nil {
		sections = append(sections, field.View())
	}
	if a.showHelp {
		sections = append(sections, a.styles.Panel.Render(a.helpText()))
	}

	sections = append(sections, a.viewport.View(), a.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) helpText() string {
	groups := a.keymap.FullHelp()
	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		parts := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			parts = append(parts, fmt.Sprintf("%-12s %s", h.Key, h.Desc))
		}
		lines = append(lines, strings.Join(parts, "   "))
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Session returns the current session.
func (a *App) Session() *domain.Session {
	return a.session
}

// Focus returns which part of the screen receives keys.
func (a *App) Focus() messages.Focus {
	return a.focus
}

// Busy reports whether an operation is running.
func (a *App) Busy() bool {
	return a.busy
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Status returns the status bar state and message.
func (a *App) Status() (status.State, string) {
	return a.statusbar.State(), a.statusbar.Message()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.path.SetWidth(width)
	a.feedback.SetWidth(width)
	a.statusbar.SetWidth(width)

	a.viewport.Width = width
	a.viewport.Height = max(height-chromeHeight, 3)
}
