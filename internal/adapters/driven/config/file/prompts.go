package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnalysis: `You are an aviation safety analyst. Analyze the following safety report using the "{{.Method}}" method.

Session ID: {{.SessionID}}

{{.SectorLine}}{{.LanguageLine}}

Return a detailed markdown-formatted analysis with the following structure:

### Incident Summary
- Brief summary of the incident in 2-3 lines.

### Root Cause Analysis ({{.Method}})
- Explain the cause(s) of the incident using the selected method.

### Short-term Solution (7 days)
- Actionable recommendations that can be implemented within a week. Prefer checklist-like bullet points.

### Long-term Solution (30 days)
- Preventative strategies and systemic improvements. Prefer checklist-like bullet points.

### Severity Level
- Categorize severity as: Minor / Moderate / Major / Critical

Here is the full report text:
{{.Text}}`,

	driven.PromptFeedback: `*** Additional Reviewer Feedback to incorporate: ***
{{.Feedback}}`,

	driven.PromptSimilarityJudge: `You are an aviation safety analyst. Compare two safety analyses (query vs. candidate),
considering ONLY: Incident Summary, 7-day actions, 30-day actions.

Return a very short justification (max 2 sentences) of why they are similar or not,
focused on concrete overlaps (e.g., missing POH, checklist not done, dispatch/document control, training gaps).
Also return a confidence from 0.0 to 1.0 reflecting how strong the overlap is.

{{.LanguageLine}}
Respond in strict JSON with keys: why (string), confidence (number).

# QUERY
{{.Query}}

# CANDIDATE
{{.Candidate}}`,

	driven.PromptClassify: `You are an aviation safety analyst. Read the markdown below and pick:
1) exactly ONE occurrence from this controlled list:
{{range .Occurrences}}- {{.}}
{{end}}
2) risk severity: one of [{{join .Severities ", "}}]
3) risk probability: one of [{{join .Probabilities ", "}}]

Return STRICT JSON with keys: occurrence, severity, probability.

Markdown to read:
{{.Body}}`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.safety-analyzer/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".safety-analyzer", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Safety Analyzer Prompts

This directory contains customisable prompts used by the analyzer's LLM calls.

## Files

- ` + "`analysis.txt`" + ` - Generates the structured root-cause report
- ` + "`feedback.txt`" + ` - Appended to the analysis prompt when revising with reviewer feedback
- ` + "`similarity_judge.txt`" + ` - Judges how closely a stored report matches the current one
- ` + "`classify.txt`" + ` - Picks occurrence, severity and probability from the controlled lists

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command or after restarting the TUI.

## Template Fields

Prompts are Go text/template documents:
- analysis: ` + "`{{.Method}} {{.SessionID}} {{.SectorLine}} {{.LanguageLine}} {{.Text}}`" + `
- feedback: ` + "`{{.Feedback}}`" + `
- similarity_judge: ` + "`{{.LanguageLine}} {{.Query}} {{.Candidate}}`" + `
- classify: ` + "`{{.Occurrences}} {{.Severities}} {{.Probabilities}} {{.Body}}`" + ` (use ` + "`join`" + ` for lists)

The report headings in analysis.txt are parsed by the analyzer. Keep
"### Incident Summary", "### Root Cause Analysis", "### Short-term Solution",
"### Long-term Solution" and "### Severity" at the start of their lines.
`
	return os.WriteFile(path, []byte(content), 0600)
}
