package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates an export format that is not available.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Analysis is impossible; judging and classification fall back.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Reports are stored with an empty vector and are not searchable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStorage indicates the report store could not read or write.
	ErrStorage = errors.New("storage failure")

	// ErrAnalysisFailed indicates the primary report generation call failed.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrAnalysisInProgress indicates an analysis for the same document is already running.
	ErrAnalysisInProgress = errors.New("analysis already in progress for this document")

	// ErrNoRevision indicates no reviewer revision exists to save.
	ErrNoRevision = errors.New("no updated report available, send feedback first")

	// Input faults. These are rejected before any external call.

	// ErrNoFile indicates no file was provided.
	ErrNoFile = errors.New("no file uploaded")

	// ErrNotPDF indicates the file is not a PDF.
	ErrNotPDF = errors.New("only PDF files are allowed")

	// ErrFileTooLarge indicates the file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile indicates the file has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrUnreadable indicates the document could not be read (corrupt or encrypted).
	ErrUnreadable = errors.New("document is unreadable")

	// ErrNoText indicates the document yielded no extractable text.
	ErrNoText = errors.New("no text found in PDF, check that it contains readable text and is not password-protected")

	// ErrTextTooShort indicates the extracted text is too short to analyse.
	ErrTextTooShort = errors.New("PDF contains very little text, ensure it has sufficient content for analysis")
)

var inputFaults = []error{
	ErrInvalidInput,
	ErrNoFile,
	ErrNotPDF,
	ErrFileTooLarge,
	ErrEmptyFile,
	ErrUnreadable,
	ErrNoText,
	ErrTextTooShort,
	ErrUnsupportedFormat,
}

// IsInputFault reports whether err was caused by caller input rather than
// an internal or external-capability failure.
func IsInputFault(err error) bool {
	for _, target := range inputFaults {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
