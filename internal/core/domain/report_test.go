package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected string
	}{
		{name: "plain name", fileName: "incident-042.pdf", expected: "incident-042.pdf"},
		{name: "updated suffix", fileName: "incident-042.pdf (updated)", expected: "incident-042.pdf"},
		{name: "final suffix", fileName: "incident-042.pdf (final)", expected: "incident-042.pdf"},
		{name: "suffix is case-insensitive", fileName: "incident-042.pdf (FINAL)", expected: "incident-042.pdf"},
		{name: "surrounding whitespace", fileName: "  incident-042.pdf (updated)  ", expected: "incident-042.pdf"},
		{name: "directory is dropped", fileName: "/tmp/reports/incident-042.pdf", expected: "incident-042.pdf"},
		{name: "windows directory is dropped", fileName: `C:\reports\incident-042.pdf (final)`, expected: "incident-042.pdf"},
		{name: "final then updated are both removed", fileName: "a.pdf (final) (updated)", expected: "a.pdf"},
		{name: "updated before final is kept", fileName: "a.pdf (updated) (final)", expected: "a.pdf (updated)"},
		{name: "suffix in the middle is kept", fileName: "a (final) report.pdf", expected: "a (final) report.pdf"},
		{name: "manual final", fileName: "Manual (final)", expected: "Manual"},
		{name: "empty", fileName: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocKey(tt.fileName))
		})
	}
}

func TestDocKey_SuffixVariantsShareKey(t *testing.T) {
	base := DocKey("bird-strike.pdf")
	for _, name := range []string{
		"bird-strike.pdf (updated)",
		"bird-strike.pdf (final)",
		" bird-strike.pdf ",
		"bird-strike.pdf (Updated) ",
	} {
		assert.Equal(t, base, DocKey(name), name)
	}
}

func TestReport_Sections(t *testing.T) {
	r := &Report{}
	s := Sections{Summary: "s", RootCause: "r", ShortTerm: "7", LongTerm: "30", Severity: "Major"}
	r.SetSections(s)

	assert.Equal(t, s, r.Sections())
	assert.False(t, r.HasEmbedding())

	r.Embedding = []float32{1}
	assert.True(t, r.HasEmbedding())
}
