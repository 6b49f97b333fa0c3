package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for report resources.
	uriScheme = "report://"

	indexURI = uriScheme + "index"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing every current report.
	s.server.AddResource(&mcp.Resource{
		URI:         indexURI,
		Name:        "reports",
		Description: "Current version of every stored safety report",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	// Template for the markdown of one report.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{id}",
		Name:        "report-markdown",
		Description: "Full markdown analysis of a stored report",
		MIMEType:    "text/markdown",
	}, s.handleReportResource)
}

// handleIndexResource returns a JSON list of all current reports.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	reports, err := s.ports.Reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	infos := make([]ReportOutput, len(reports))
	for i, r := range reports {
		infos[i] = toReportOutput(r)
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling reports: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleReportResource returns the stored markdown of one report.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractReportID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Reports.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     domain.WithEnvelope(report.FileName, report.Method, report.Language, report.FullMarkdown),
		}},
	}, nil
}

// extractReportID parses the ID from a URI like report://{id}.
func extractReportID(uri string) (int64, bool) {
	if !strings.HasPrefix(uri, uriScheme) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, uriScheme), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func reportURI(id int64) string {
	return uriScheme + strconv.FormatInt(id, 10)
}
