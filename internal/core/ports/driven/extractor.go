package driven

import "context"

// TextExtractor returns the plain text of a document.
type TextExtractor interface {
	// ExtractFile reads the document at path. Unreadable or encrypted files
	// return an error wrapping domain.ErrUnreadable.
	ExtractFile(ctx context.Context, path string) (string, error)

	// Extract reads a document from memory.
	Extract(ctx context.Context, data []byte) (string, error)

	// Available reports whether the extractor can run on this machine.
	Available() error
}
