package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// mockSimilarityService is a mock implementation of driving.SimilarityService.
type mockSimilarityService struct {
	matches  []domain.SimilarMatch
	err      error
	lastText string
	lastOpts domain.SimilarOptions
}

func (m *mockSimilarityService) SearchSimilar(
	_ context.Context,
	text string,
	opts domain.SimilarOptions,
) ([]domain.SimilarMatch, error) {
	m.lastText = text
	m.lastOpts = opts
	return m.matches, m.err
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

// mockClassificationService is a mock implementation of driving.ClassificationService.
type mockClassificationService struct {
	result  domain.Classification
	err     error
	current domain.Classification
}

func (m *mockClassificationService) Classify(
	_ context.Context,
	_ string,
	current domain.Classification,
) (domain.Classification, error) {
	m.current = current
	return m.result, m.err
}

func (m *mockClassificationService) Apply(markdown string, _ domain.Classification) (string, error) {
	return markdown, m.err
}

func testReports() []*domain.Report {
	created := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	return []*domain.Report{
		{
			ID:           1,
			FileName:     "bird-strike.pdf",
			DocKey:       "bird-strike.pdf",
			Method:       domain.MethodFiveWhys,
			Language:     domain.LanguageEnglish,
			Severity:     "Major",
			Summary:      "Geese ingested on climb out.",
			FullMarkdown: "### Incident Summary\nGeese ingested on climb out.",
			Version:      1,
			CreatedAt:    created,
		},
		{
			ID:           4,
			FileName:     "ramp-check.pdf (final)",
			DocKey:       "ramp-check.pdf",
			Method:       domain.MethodFishbone,
			Language:     domain.LanguageFrench,
			Summary:      "POH absent.",
			FullMarkdown: "### Incident Summary\nPOH absent.",
			Version:      3,
			CreatedAt:    created.Add(time.Hour),
		},
	}
}

func newTestServerPorts() *Ports {
	return &Ports{
		Similarity: &mockSimilarityService{},
		Reports:    &mockReportService{reports: testReports()},
	}
}
