package domain

import (
	"fmt"
	"strings"
)

// Section field names recognised by the report grammar.
const (
	FieldSummary   = "summary"
	FieldRootCause = "root_cause"
	FieldShortTerm = "short_term"
	FieldLongTerm  = "long_term"
	FieldSeverity  = "severity"
)

// SectionHeader binds a heading prefix to a Sections field.
type SectionHeader struct {
	// Prefix is matched case-insensitively against the trimmed line.
	Prefix string
	Field  string
}

// SectionHeaders is the fixed header set of the report grammar. Headings are
// matched by prefix, so "### Root Cause Analysis (Five Whys)" still matches.
var SectionHeaders = []SectionHeader{
	{Prefix: "### incident summary", Field: FieldSummary},
	{Prefix: "### root cause analysis", Field: FieldRootCause},
	{Prefix: "### short-term solution", Field: FieldShortTerm},
	{Prefix: "### long-term solution", Field: FieldLongTerm},
	{Prefix: "### severity", Field: FieldSeverity},
}

// Sections holds the structured fields carried by a report body.
type Sections struct {
	Summary   string
	RootCause string
	ShortTerm string
	LongTerm  string
	Severity  string
}

// IsEmpty returns true if no recognised section had content.
func (s Sections) IsEmpty() bool {
	return s.Summary == "" && s.RootCause == "" && s.ShortTerm == "" && s.LongTerm == "" && s.Severity == ""
}

func (s *Sections) field(name string) *string {
	switch name {
	case FieldSummary:
		return &s.Summary
	case FieldRootCause:
		return &s.RootCause
	case FieldShortTerm:
		return &s.ShortTerm
	case FieldLongTerm:
		return &s.LongTerm
	case FieldSeverity:
		return &s.Severity
	default:
		return nil
	}
}

// matchHeader returns the field for a heading line, or "".
func matchHeader(line string) string {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, h := range SectionHeaders {
		if strings.HasPrefix(l, h.Prefix) {
			return h.Field
		}
	}
	return ""
}

// ExtractSections splits a report body into its recognised sections.
// Lines before the first recognised heading are discarded. Unrecognised
// headings are kept as content of the active section.
func ExtractSections(body string) Sections {
	bufs := make(map[string]*strings.Builder, len(SectionHeaders))
	current := ""
	for _, line := range splitLines(body) {
		if f := matchHeader(line); f != "" {
			current = f
			continue
		}
		if current == "" {
			continue
		}
		b, ok := bufs[current]
		if !ok {
			b = &strings.Builder{}
			bufs[current] = b
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var s Sections
	for name, b := range bufs {
		if p := s.field(name); p != nil {
			*p = strings.TrimSpace(b.String())
		}
	}
	return s
}

// envelopeMarkers identify the presentation header line.
var envelopeMarkers = []string{"📄", "Method:", "Language:"}

func isEnvelopeLine(line string) bool {
	for _, m := range envelopeMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// StripEnvelope removes the presentation header from the first line if
// present and returns the trimmed body.
func StripEnvelope(text string) string {
	lines := splitLines(text)
	if len(lines) > 0 && isEnvelopeLine(lines[0]) {
		return strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return strings.TrimSpace(text)
}

// Envelope returns the presentation header shown above a report.
func Envelope(fileName, method, language string) string {
	return fmt.Sprintf("📄 %s  |  🧭 Method: %s  |  🌐 Language: %s", baseName(fileName), method, language)
}

// WithEnvelope prepends the presentation header to a body.
func WithEnvelope(fileName, method, language, body string) string {
	return Envelope(fileName, method, language) + "\n\n" + strings.TrimSpace(body)
}

// EnvelopeFileName returns the file name recorded in a displayed report's
// header, or "" when the text carries no file header.
func EnvelopeFileName(text string) string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return ""
	}
	_, rest, ok := strings.Cut(lines[0], "📄")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "|")
	return strings.TrimSpace(name)
}

// EnvelopeLine returns the header line of a displayed report, or "".
func EnvelopeLine(text string) string {
	lines := splitLines(text)
	if len(lines) > 0 && (strings.Contains(lines[0], "📄") || strings.Contains(lines[0], "Method:")) {
		return lines[0]
	}
	return ""
}

// ComposeSimilarityText returns the text used for embedding: the summary,
// 7-day and 30-day sections joined by a blank line, or the whole stripped
// body when none of them are present.
func ComposeSimilarityText(markdown string) string {
	body := StripEnvelope(markdown)
	s := ExtractSections(body)
	if text := joinNonEmpty("\n\n", s.Summary, s.ShortTerm, s.LongTerm); text != "" {
		return text
	}
	return body
}

// OverlapText returns the summary and action sections joined by newlines.
// It is the material compared when judging relevance between two reports.
func OverlapText(markdown string) string {
	s := ExtractSections(StripEnvelope(markdown))
	return joinNonEmpty("\n", s.Summary, s.ShortTerm, s.LongTerm)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, sep))
}

// UpsertSection replaces the block under "### <title>" (up to the next
// "### " line) with block, or appends the section when absent.
func UpsertSection(body, title, block string) string {
	lines := splitLines(body)
	prefix := strings.ToLower("### " + title)
	out := make([]string, 0, len(lines)+4)
	found := false

	for i := 0; i < len(lines); {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[i])), prefix) {
			found = true
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "### ") {
				i++
			}
			out = append(out, "### "+title)
			out = append(out, splitLines(block)...)
			continue
		}
		out = append(out, lines[i])
		i++
	}

	if !found {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, "### "+title)
		out = append(out, splitLines(block)...)
	}
	return strings.Join(out, "\n")
}

// Section is one titled block of a report body.
type Section struct {
	Title   string
	Content string
}

// DefaultSectionTitle names content that precedes the first heading.
const DefaultSectionTitle = "Report"

// SplitSections splits a body on every "### " heading. Content before the
// first heading is titled "Report".
func SplitSections(body string) []Section {
	var (
		sections []Section
		title    = DefaultSectionTitle
		buf      []string
	)
	flush := func() {
		if len(buf) > 0 {
			sections = append(sections, Section{Title: title, Content: strings.TrimSpace(strings.Join(buf, "\n"))})
			buf = nil
		}
	}
	for _, line := range splitLines(body) {
		if strings.HasPrefix(line, "### ") {
			flush()
			title = strings.TrimSpace(line[4:])
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return sections
}

// splitLines splits on newlines, accepting CRLF, without a trailing empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
