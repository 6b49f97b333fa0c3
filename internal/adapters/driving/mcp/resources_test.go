package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

func TestExtractReportID(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		wantID int64
		wantOK bool
	}{
		{name: "valid report URI", uri: "report://42", wantID: 42, wantOK: true},
		{name: "invalid prefix", uri: "file://42"},
		{name: "non-numeric id", uri: "report://abc"},
		{name: "zero id", uri: "report://0"},
		{name: "index is not a report", uri: "report://index"},
		{name: "empty URI", uri: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := extractReportID(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns reports as json", func(t *testing.T) {
		server, err := NewServer(newTestServerPorts())
		require.NoError(t, err)

		result, err := server.handleIndexResource(ctx, makeReadResourceRequest("report://index"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var infos []ReportOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 2)
		assert.Equal(t, "ramp-check.pdf (final)", infos[1].FileName)
	})

	t.Run("store failure returns error", func(t *testing.T) {
		ports := newTestServerPorts()
		ports.Reports = &mockReportService{err: domain.ErrStorage}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleIndexResource(ctx, makeReadResourceRequest("report://index"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing reports")
	})
}

func TestServer_handleReportResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown with header", func(t *testing.T) {
		server, err := NewServer(newTestServerPorts())
		require.NoError(t, err)

		result, err := server.handleReportResource(ctx, makeReadResourceRequest("report://4"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Equal(t,
			"📄 ramp-check.pdf (final)  |  🧭 Method: Fishbone  |  🌐 Language: Français\n\n### Incident Summary\nPOH absent.",
			result.Contents[0].Text)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		server, err := NewServer(newTestServerPorts())
		require.NoError(t, err)

		_, err = server.handleReportResource(ctx, makeReadResourceRequest("report://99"))
		require.Error(t, err)
	})

	t.Run("malformed uri is not found", func(t *testing.T) {
		server, err := NewServer(newTestServerPorts())
		require.NoError(t, err)

		_, err = server.handleReportResource(ctx, makeReadResourceRequest("report://latest"))
		require.Error(t, err)
	})

	t.Run("store failure returns error", func(t *testing.T) {
		ports := newTestServerPorts()
		ports.Reports = &mockReportService{err: domain.ErrStorage}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleReportResource(ctx, makeReadResourceRequest("report://1"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorage)
	})
}
