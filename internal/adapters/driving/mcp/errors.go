// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// safety analyzer. It lets AI assistants search, classify and read stored reports.
package mcp

import "errors"

var (
	// ErrMissingSimilarityService is returned when the similarity service is not provided.
	ErrMissingSimilarityService = errors.New("mcp: similarity service is required")

	// ErrMissingReportService is returned when the report service is not provided.
	ErrMissingReportService = errors.New("mcp: report service is required")

	// ErrClassificationDisabled is returned by classify_report without a classification service.
	ErrClassificationDisabled = errors.New("mcp: classification service not configured")
)
