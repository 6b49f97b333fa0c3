package web

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result  *domain.AnalysisResult
	err     error
	lastReq driving.AnalyzeRequest
}

func (m *mockAnalysisService) Analyze(
	_ context.Context, _ *domain.Session, req driving.AnalyzeRequest,
) (*domain.AnalysisResult, error) {
	m.lastReq = req
	return m.result, m.err
}

func (m *mockAnalysisService) Revise(_ context.Context, _ *domain.Session, _ string) (string, error) {
	return "", m.err
}

func (m *mockAnalysisService) SaveRevision(_ context.Context, _ *domain.Session) (*domain.Report, error) {
	return nil, m.err
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	reports []*domain.Report
	err     error
}

func (m *mockReportService) Insert(_ context.Context, _ domain.NewReport) (*domain.Report, error) {
	return nil, m.err
}

func (m *mockReportService) List(_ context.Context) ([]*domain.Report, error) {
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

// mockSimilarityService is a mock implementation of driving.SimilarityService.
type mockSimilarityService struct {
	matches  []domain.SimilarMatch
	err      error
	lastOpts domain.SimilarOptions
}

func (m *mockSimilarityService) SearchSimilar(
	_ context.Context, _ string, opts domain.SimilarOptions,
) ([]domain.SimilarMatch, error) {
	m.lastOpts = opts
	return m.matches, m.err
}

// mockClassificationService is a mock implementation of driving.ClassificationService.
type mockClassificationService struct {
	result   domain.Classification
	err      error
	applied  domain.Classification
	applyOut string
}

func (m *mockClassificationService) Classify(
	_ context.Context, _ string, _ domain.Classification,
) (domain.Classification, error) {
	return m.result, m.err
}

func (m *mockClassificationService) Apply(_ string, c domain.Classification) (string, error) {
	m.applied = c
	return m.applyOut, m.err
}

// mockExportService is a mock implementation of driving.ExportService.
type mockExportService struct {
	out     string
	err     error
	lastReq driving.ExportRequest
}

func (m *mockExportService) Export(_ context.Context, w io.Writer, req driving.ExportRequest) error {
	m.lastReq = req
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.out)
	return err
}

func (m *mockExportService) Formats() []string { return []string{"csv", "pdf"} }

func (m *mockExportService) ContentType(format string) string {
	if format == "csv" {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

type testPorts struct {
	analysis       *mockAnalysisService
	reports        *mockReportService
	similarity     *mockSimilarityService
	classification *mockClassificationService
	export         *mockExportService
}

func newTestPorts() *testPorts {
	created := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	return &testPorts{
		analysis: &mockAnalysisService{},
		reports: &mockReportService{reports: []*domain.Report{{
			ID:           7,
			FileName:     "engine.pdf",
			DocKey:       "engine.pdf",
			Method:       domain.MethodBowtie,
			Language:     domain.LanguageEnglish,
			Severity:     "Critical",
			Summary:      "Engine failure after takeoff.",
			FullMarkdown: "### Incident Summary\nEngine failure after takeoff.",
			Embedding:    []float32{1, 0},
			Version:      2,
			CreatedAt:    created,
		}}},
		similarity:     &mockSimilarityService{},
		classification: &mockClassificationService{},
		export:         &mockExportService{},
	}
}

func (p *testPorts) ports() *Ports {
	return &Ports{
		Analysis:       p.analysis,
		Reports:        p.reports,
		Similarity:     p.similarity,
		Classification: p.classification,
		Export:         p.export,
	}
}
