package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession("abc")

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, MethodFiveWhys, s.Method)
	assert.Equal(t, LanguageEnglish, s.Language)
	assert.Equal(t, DefaultClassification(), s.Classification)

	assert.NotEmpty(t, NewSession("").ID)
}

func TestSession_SelectClearsDerivedState(t *testing.T) {
	s := NewSession("id")
	s.Method = MethodBowtie
	s.Select("/tmp/first.pdf")
	s.Report = "report"
	s.LatestRevision = "revision"
	s.Classification.Occurrence = "Bird strike"

	s.Select("/tmp/first.pdf")
	assert.Equal(t, "report", s.Report, "reselecting the same file keeps state")

	s.Select("/tmp/second.pdf")
	assert.Equal(t, "second.pdf", s.FileName())
	assert.Empty(t, s.Report)
	assert.Empty(t, s.LatestRevision)
	assert.Equal(t, DefaultClassification(), s.Classification)
	assert.Equal(t, MethodBowtie, s.Method)
}

func TestSession_FinalFileName(t *testing.T) {
	s := NewSession("id")
	assert.Equal(t, "Manual (final)", s.FinalFileName())

	s.Select("/x/y/report.pdf")
	assert.Equal(t, "report.pdf (final)", s.FinalFileName())
	assert.Equal(t, "report.pdf", DocKey(s.FinalFileName()))
}

func TestMethodsAndLanguages(t *testing.T) {
	assert.Equal(t, []string{"Five Whys", "Fishbone", "Bowtie", "Fault Tree"}, AllMethods())
	assert.Equal(t, []string{"English", "Français"}, AllLanguages())
	assert.True(t, IsMethod("Fault Tree"))
	assert.False(t, IsMethod("five whys"))
	assert.True(t, IsLanguage("Français"))
}

func TestSession_SelectClearsSourceText(t *testing.T) {
	s := NewSession("id")
	s.Select("/tmp/a.pdf")
	s.SourceText = "extracted"

	s.Select("/tmp/b.pdf")
	assert.Empty(t, s.SourceText)
}

func TestSession_AppendRevision(t *testing.T) {
	s := NewSession("id")
	_, err := s.AppendRevision(time.Now())
	assert.ErrorIs(t, err, ErrNoRevision)

	s.Report = "### Incident Summary\nfirst\n"
	s.LatestRevision = "### Incident Summary\nsecond"

	out, err := s.AppendRevision(time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, out, s.Report)
	assert.True(t, strings.HasPrefix(out, "### Incident Summary\nfirst\n....."))
	assert.Contains(t, out, "🔁 Updated version (2024-03-09 14:05)\n\n### Incident Summary\nsecond\n")
}
