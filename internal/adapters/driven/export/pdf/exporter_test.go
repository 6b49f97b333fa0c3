package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

func TestExporter_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, "pdf", e.Format())
	assert.Equal(t, "application/pdf", e.ContentType())
}

func TestExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	sections := []domain.Section{
		{Title: "Incident Summary", Content: "Bird strike during approach.\n\nNo injuries."},
		{Title: "Severity Level", Content: "- Moderate"},
	}

	err := New().Export(&buf, driven.ExportMeta{
		Title:       "Safety Report",
		Source:      "bird.pdf",
		GeneratedAt: "2026-01-02 10:00",
	}, sections)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestExporter_ExportNoSections(t *testing.T) {
	var buf bytes.Buffer

	err := New().Export(&buf, driven.ExportMeta{}, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestLatin1(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii unchanged", "Root cause", "Root cause"},
		{"accents kept", "Sécurité", "Sécurité"},
		{"bullets", "• item", "- item"},
		{"dashes and quotes", "a — “b” ‘c’", "a - \"b\" 'c'"},
		{"emoji dropped", "📄 file", " file"},
		{"approx", "≈ 80%", "~ 80%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, latin1(tc.in))
		})
	}
}
