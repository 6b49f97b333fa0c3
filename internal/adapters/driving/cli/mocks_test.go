package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// mockAnalysisService implements driving.AnalysisService for testing.
type mockAnalysisService struct {
	analyzeFn func(ctx context.Context, s *domain.Session, req driving.AnalyzeRequest) (*domain.AnalysisResult, error)
	reviseFn  func(ctx context.Context, s *domain.Session, feedback string) (string, error)
	saveFn    func(ctx context.Context, s *domain.Session) (*domain.Report, error)

	lastRequest driving.AnalyzeRequest
}

func (m *mockAnalysisService) Analyze(
	ctx context.Context, s *domain.Session, req driving.AnalyzeRequest,
) (*domain.AnalysisResult, error) {
	m.lastRequest = req
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, s, req)
	}
	s.Select(req.Path)
	s.Report = "# Engine fire\n\n### Summary\nFire on climb."
	return &domain.AnalysisResult{
		FileName: "engine.pdf",
		Method:   domain.MethodFiveWhys,
		Language: domain.LanguageEnglish,
		Display:  s.Report,
		Report:   &domain.Report{ID: 4, Version: 1},
	}, nil
}

func (m *mockAnalysisService) Revise(ctx context.Context, s *domain.Session, feedback string) (string, error) {
	if m.reviseFn != nil {
		return m.reviseFn(ctx, s, feedback)
	}
	s.LatestRevision = "### Summary\nRevised: " + feedback
	return s.LatestRevision, nil
}

func (m *mockAnalysisService) SaveRevision(ctx context.Context, s *domain.Session) (*domain.Report, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, s)
	}
	return &domain.Report{ID: 5, Version: 2, FileName: s.FinalFileName()}, nil
}

// mockReportService implements driving.ReportService for testing.
type mockReportService struct {
	reports []*domain.Report
	err     error

	inserted []domain.NewReport
}

func (m *mockReportService) Insert(_ context.Context, in domain.NewReport) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inserted = append(m.inserted, in)
	return &domain.Report{ID: int64(len(m.inserted)), Version: 1, FileName: in.FileName}, nil
}

func (m *mockReportService) List(context.Context) ([]*domain.Report, error) {
	return m.reports, m.err
}

func (m *mockReportService) Get(_ context.Context, id int64) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockSimilarityService implements driving.SimilarityService for testing.
type mockSimilarityService struct {
	matches []domain.SimilarMatch
	err     error

	lastOpts  domain.SimilarOptions
	lastQuery string
}

func (m *mockSimilarityService) SearchSimilar(
	_ context.Context, query string, opts domain.SimilarOptions,
) ([]domain.SimilarMatch, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.matches, m.err
}

// mockClassificationService implements driving.ClassificationService for testing.
type mockClassificationService struct {
	result domain.Classification
	err    error
}

func (m *mockClassificationService) Classify(
	_ context.Context, _ string, current domain.Classification,
) (domain.Classification, error) {
	if m.err != nil {
		return current, m.err
	}
	return m.result, nil
}

func (m *mockClassificationService) Apply(markdown string, c domain.Classification) (string, error) {
	return markdown + "\n\n### Risk Severity\n" + c.Severity, nil
}

// mockExportService implements driving.ExportService for testing.
type mockExportService struct {
	err     error
	lastReq driving.ExportRequest
}

func (m *mockExportService) Export(_ context.Context, w io.Writer, req driving.ExportRequest) error {
	m.lastReq = req
	if m.err != nil {
		_, _ = io.WriteString(w, "partial")
		return m.err
	}
	_, err := io.WriteString(w, req.Format+":"+req.Markdown)
	return err
}

func (m *mockExportService) Formats() []string { return []string{"csv", "pdf"} }

func (m *mockExportService) ContentType(string) string { return "text/plain" }

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider, m.settings.Embedding.Model, m.settings.Embedding.APIKey = p, model, apiKey
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider, m.settings.LLM.Model, m.settings.LLM.APIKey = p, model, apiKey
	return m.err
}

func (m *mockSettingsService) SetDefaults(method, language string) error {
	if m.err != nil {
		return m.err
	}
	m.settings.Analysis.DefaultMethod = method
	m.settings.Analysis.DefaultLanguage = language
	return nil
}

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	analysis       *mockAnalysisService
	reports        *mockReportService
	similarity     *mockSimilarityService
	classification *mockClassificationService
	export         *mockExportService
	settings       *mockSettingsService
}

// setupTestServices installs fresh mocks and returns them with a cleanup
// restoring the previous services.
func setupTestServices() (*testServices, func()) {
	prev := Services{
		Analysis:       analysisService,
		Reports:        reportService,
		Similarity:     similarityService,
		Classification: classificationService,
		Export:         exportService,
		Settings:       settingsService,
	}

	ts := &testServices{
		analysis:       &mockAnalysisService{},
		reports:        &mockReportService{},
		similarity:     &mockSimilarityService{},
		classification: &mockClassificationService{},
		export:         &mockExportService{},
		settings:       newMockSettingsService(),
	}
	SetServices(Services{
		Analysis:       ts.analysis,
		Reports:        ts.reports,
		Similarity:     ts.similarity,
		Classification: ts.classification,
		Export:         ts.export,
		Settings:       ts.settings,
	})

	return ts, func() { SetServices(prev) }
}

// resetFlags puts every flag in the tree back to its default. Flag values
// live in package variables and survive between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setContext installs ctx on every command; cobra keeps a subcommand's
// context from its first run otherwise.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(c, ctx)
	}
}

// executeCommand runs the root command with args and stdin, returning what
// was written to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return execute(t, context.Background(), stdin, args)
}

// executeCommandContext runs the root command under ctx with empty stdin.
func executeCommandContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	return execute(t, ctx, "", args)
}

func execute(t *testing.T, ctx context.Context, stdin string, args []string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	setContext(rootCmd, ctx)
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}
