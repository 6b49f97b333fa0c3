// Package pdf extracts plain text from PDF documents using pdftotext.
//
// pdftotext ships with poppler-utils and must be installed separately:
//
//	brew install poppler          (macOS)
//	apt install poppler-utils     (Debian/Ubuntu)
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

const (
	toolName = "pdftotext"

	// extractTimeout bounds a single pdftotext run.
	extractTimeout = 2 * time.Minute
)

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Extractor reads PDF text through pdftotext.
type Extractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates an Extractor that shells out to pdftotext.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates an Extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner, lookPath: exec.LookPath}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a user-facing hint for installing pdftotext.
func InstallInstructions() string {
	return `PDF text extraction requires pdftotext (poppler).
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Available reports whether the extractor can run.
func (e *Extractor) Available() error {
	if _, err := e.lookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// ExtractFile returns the text of the PDF at path, pages joined by newlines.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", domain.ErrNoFile
	}
	if err := e.Available(); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	logger.Debug("pdftotext: %s", path)
	out, err := e.runner.Run(callCtx, toolName, "-enc", "UTF-8", "-q", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed: %w", domain.ErrUnreadable, err)
	}

	return normalise(string(out)), nil
}

// Extract writes data to a temporary file and extracts it.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyFile
	}

	tmp, err := os.CreateTemp("", "safety-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	return e.ExtractFile(ctx, tmp.Name())
}

// normalise joins pages with newlines and trims the result.
// pdftotext separates pages with form feeds.
func normalise(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	return strings.TrimSpace(s)
}
