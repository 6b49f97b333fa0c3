package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// revisionSeparator divides an appended revision from the report above it.
var revisionSeparator = strings.Repeat(".", 80)

// Session holds the state of one user working on one selected file.
// It is created per CLI invocation, TUI run or web request and cleared
// whenever a different file is selected.
type Session struct {
	// ID is sent to the analysis prompt to tag the run.
	ID string

	// SelectedFile is the path of the PDF being worked on.
	SelectedFile string

	Method   string
	Language string

	// SourceText is the text extracted from SelectedFile, reused by revisions.
	SourceText string

	// Report is the displayed report, presentation header included.
	Report string

	// LatestRevision is the most recent reviewer-feedback rewrite, not yet saved.
	LatestRevision string

	// Classification holds the values the user would apply next.
	Classification Classification
}

// NewSession returns a session with default method, language and classification.
// An empty id is replaced by a random UUID.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:             id,
		Method:         MethodFiveWhys,
		Language:       LanguageEnglish,
		Classification: DefaultClassification(),
	}
}

// Select switches the session to a new file and discards everything derived
// from the previous one. Method and language are kept.
func (s *Session) Select(path string) {
	if path == s.SelectedFile {
		return
	}
	s.SelectedFile = path
	s.SourceText = ""
	s.Report = ""
	s.LatestRevision = ""
	s.Classification = DefaultClassification()
}

// FileName returns the base name of the selected file.
func (s *Session) FileName() string {
	if s.SelectedFile == "" {
		return ""
	}
	return filepath.Base(s.SelectedFile)
}

// FinalFileName is the name a saved revision is stored under.
func (s *Session) FinalFileName() string {
	name := s.FileName()
	if name == "" {
		name = "Manual"
	}
	return name + " (final)"
}

// AppendRevision adds the latest revision below the displayed report with a
// timestamped divider and returns the new display text.
func (s *Session) AppendRevision(now time.Time) (string, error) {
	if s.LatestRevision == "" {
		return "", ErrNoRevision
	}
	s.Report = strings.TrimRight(s.Report, "\n") + "\n" + revisionSeparator +
		"\n\n🔁 Updated version (" + now.Format("2006-01-02 15:04") + ")\n\n" +
		strings.TrimSpace(s.LatestRevision) + "\n"
	return s.Report, nil
}
