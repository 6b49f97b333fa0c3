package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// SearchSimilarInput is the input schema for the search_similar tool.
type SearchSimilarInput struct {
	Text     string `json:"text" jsonschema:"the analysis markdown to compare against stored reports"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 5)"`
	Rerank   bool   `json:"rerank,omitempty" jsonschema:"ask the LLM to judge each candidate and blend its confidence into the score"`
	Language string `json:"language,omitempty" jsonschema:"language of the rationale text, English or Français"`
}

// SearchSimilarOutput is the output schema for the search_similar tool.
type SearchSimilarOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput represents a single similar report.
type MatchOutput struct {
	ReportID    int64   `json:"report_id"`
	FileName    string  `json:"file_name"`
	DocKey      string  `json:"doc_key"`
	Summary     string  `json:"summary,omitempty"`
	Severity    string  `json:"severity,omitempty"`
	VectorScore float64 `json:"vector_score"`
	Confidence  float64 `json:"confidence"`
	Rationale   string  `json:"rationale,omitempty"`
	FinalScore  float64 `json:"final_score"`
}

// ClassifyInput is the input schema for the classify_report tool.
type ClassifyInput struct {
	Text string `json:"text" jsonschema:"the analysis markdown to classify"`
}

// ClassifyOutput is the output schema for the classify_report tool.
type ClassifyOutput struct {
	Occurrence  string `json:"occurrence"`
	Severity    string `json:"severity"`
	Probability string `json:"probability"`
	Source      string `json:"source"`
}

// ListReportsInput is the input schema for the list_reports tool.
type ListReportsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of reports to return (default all)"`
}

// ListReportsOutput is the output schema for the list_reports tool.
type ListReportsOutput struct {
	Reports []ReportOutput `json:"reports"`
	Count   int            `json:"count"`
}

// ReportOutput summarises one stored report.
type ReportOutput struct {
	ID        int64  `json:"id"`
	FileName  string `json:"file_name"`
	DocKey    string `json:"doc_key"`
	Method    string `json:"method"`
	Language  string `json:"language"`
	Severity  string `json:"severity,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	URI       string `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_similar",
		Description: "Find stored safety reports similar to an analysis",
	}, s.handleSearchSimilar)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_report",
		Description: "Classify an analysis into an occurrence category, risk severity and risk probability",
	}, s.handleClassify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_reports",
		Description: "List the current version of every stored safety report",
	}, s.handleListReports)
}

// handleSearchSimilar handles the search_similar tool invocation.
func (s *Server) handleSearchSimilar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchSimilarInput,
) (*mcp.CallToolResult, SearchSimilarOutput, error) {
	opts := domain.SimilarOptions{
		Limit:    input.Limit,
		Rerank:   input.Rerank,
		Language: input.Language,
	}

	matches, err := s.ports.Similarity.SearchSimilar(ctx, input.Text, opts)
	if err != nil {
		return nil, SearchSimilarOutput{}, err
	}

	output := SearchSimilarOutput{
		Matches: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Matches[i] = MatchOutput{
			ReportID:    m.Report.ID,
			FileName:    m.Report.FileName,
			DocKey:      m.Report.DocKey,
			Summary:     m.Report.Summary,
			Severity:    m.Report.Severity,
			VectorScore: m.VectorScore,
			Confidence:  m.Confidence,
			Rationale:   m.Rationale,
			FinalScore:  m.FinalScore,
		}
	}

	return nil, output, nil
}

// handleClassify handles the classify_report tool invocation.
func (s *Server) handleClassify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	if s.ports.Classification == nil {
		return nil, ClassifyOutput{}, ErrClassificationDisabled
	}

	c, err := s.ports.Classification.Classify(ctx, input.Text, domain.DefaultClassification())
	if err != nil {
		return nil, ClassifyOutput{}, err
	}

	return nil, ClassifyOutput{
		Occurrence:  c.Occurrence,
		Severity:    c.Severity,
		Probability: c.Probability,
		Source:      c.Source,
	}, nil
}

// handleListReports handles the list_reports tool invocation.
func (s *Server) handleListReports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListReportsInput,
) (*mcp.CallToolResult, ListReportsOutput, error) {
	reports, err := s.ports.Reports.List(ctx)
	if err != nil {
		return nil, ListReportsOutput{}, err
	}

	if input.Limit > 0 && len(reports) > input.Limit {
		reports = reports[:input.Limit]
	}

	output := ListReportsOutput{
		Reports: make([]ReportOutput, len(reports)),
		Count:   len(reports),
	}
	for i, r := range reports {
		output.Reports[i] = toReportOutput(r)
	}

	return nil, output, nil
}

func toReportOutput(r *domain.Report) ReportOutput {
	return ReportOutput{
		ID:        r.ID,
		FileName:  r.FileName,
		DocKey:    r.DocKey,
		Method:    r.Method,
		Language:  r.Language,
		Severity:  r.Severity,
		Summary:   r.Summary,
		Version:   r.Version,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		URI:       reportURI(r.ID),
	}
}
