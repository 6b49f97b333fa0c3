package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Report is one stored analysis. Rows are never updated in place; a new
// insert for the same DocKey supersedes the previous row.
type Report struct {
	// ID is the surrogate key assigned by the store.
	ID int64

	// CreatedAt is the UTC insert time.
	CreatedAt time.Time

	// FileName is the original source name, possibly carrying a
	// " (updated)" or " (final)" suffix.
	FileName string

	// DocKey groups all versions of one logical document.
	DocKey string

	// Method is the analysis method label, e.g. "Five Whys".
	Method string

	// Language is the output language of the analysis.
	Language string

	// Severity, Summary, RootCause, ShortTerm and LongTerm are derived
	// from FullMarkdown. Any of them may be empty.
	Severity  string
	Summary   string
	RootCause string
	ShortTerm string
	LongTerm  string

	// FullMarkdown is the report body without the presentation header.
	FullMarkdown string

	// EmbeddingModel identifies the embedding capability used.
	EmbeddingModel string

	// Embedding is the unit-norm similarity vector, empty when embedding failed.
	Embedding []float32

	// Version starts at 1 per DocKey and increments on every insert.
	Version int

	// IsCurrent marks the authoritative row for DocKey.
	IsCurrent bool
}

// Sections returns the derived section fields.
func (r *Report) Sections() Sections {
	return Sections{
		Summary:   r.Summary,
		RootCause: r.RootCause,
		ShortTerm: r.ShortTerm,
		LongTerm:  r.LongTerm,
		Severity:  r.Severity,
	}
}

// SetSections copies derived section fields onto the report.
func (r *Report) SetSections(s Sections) {
	r.Summary = s.Summary
	r.RootCause = s.RootCause
	r.ShortTerm = s.ShortTerm
	r.LongTerm = s.LongTerm
	r.Severity = s.Severity
}

// HasEmbedding reports whether the report can take part in similarity search.
func (r *Report) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// NewReport is the input for storing a freshly generated analysis.
type NewReport struct {
	FileName string
	Method   string
	Language string

	// Markdown may still carry the presentation header; it is stripped before storage.
	Markdown string
}

var docKeySuffixes = []string{" (updated)", " (final)"}

// DocKey derives the document identity from a file name: the base name,
// trimmed, with a trailing " (updated)" and then a trailing " (final)"
// removed case-insensitively.
func DocKey(fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return ""
	}
	name = strings.TrimSpace(baseName(name))
	for _, suffix := range docKeySuffixes {
		if len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			name = strings.TrimSpace(name[:len(name)-len(suffix)])
		}
	}
	return name
}

// baseName strips directories using either separator so that keys computed
// from uploaded names match keys computed from local paths.
func baseName(name string) string {
	name = filepath.ToSlash(name)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}
