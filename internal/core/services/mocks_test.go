package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts containing a key of vectors get that vector; others get embedding.
type mockEmbeddingService struct {
	embedding []float32
	vectors   map[string][]float32
	embedErr  error

	mu    sync.Mutex
	texts []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	for key, vec := range m.vectors {
		if strings.Contains(text, key) {
			return vec, nil
		}
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1]
}

// mockLLMService implements driven.LLMService for testing.
// respond, when set, computes the reply from the prompt.
type mockLLMService struct {
	response string
	err      error
	respond  func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.respond != nil {
		return m.respond(prompt)
	}
	return m.response, m.err
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(msg.Content)
	}
	return m.Generate(ctx, b.String(), driven.GenerateOptions{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature})
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLMService) lastOpts() driven.GenerateOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.opts) == 0 {
		return driven.GenerateOptions{}
	}
	return m.opts[len(m.opts)-1]
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text  string
	err   error
	block chan struct{}

	mu    sync.Mutex
	calls int
}

func (m *mockExtractor) run(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

func (m *mockExtractor) ExtractFile(ctx context.Context, _ string) (string, error) { return m.run(ctx) }

func (m *mockExtractor) Extract(ctx context.Context, _ []byte) (string, error) { return m.run(ctx) }

func (m *mockExtractor) Available() error { return nil }

// failingReportStore implements driven.ReportStore and fails every call.
type failingReportStore struct{}

func (failingReportStore) Replace(_ context.Context, _ *domain.Report) error {
	return domain.ErrStorage
}

func (failingReportStore) FetchCurrent(_ context.Context) ([]*domain.Report, error) {
	return nil, domain.ErrStorage
}

func (failingReportStore) Get(_ context.Context, _ int64) (*domain.Report, error) {
	return nil, domain.ErrStorage
}

func (failingReportStore) Count(_ context.Context) (int, error) {
	return 0, domain.ErrStorage
}

// --- Test helpers ---

// testPrompts returns a prompt store seeded with the built-in templates.
func testPrompts(t *testing.T) driven.PromptStore {
	t.Helper()
	store, err := file.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	return store
}

// sampleReport is a generated analysis body with every recognised section.
func sampleReport(summary string) string {
	return "### Incident Summary\n" + summary + "\n\n" +
		"### Root Cause Analysis (Five Whys)\n- Checklist skipped.\n\n" +
		"### Short-term Solution (7 days)\n- Brief crews.\n\n" +
		"### Long-term Solution (30 days)\n- Revise training.\n\n" +
		"### Severity Level\nMajor"
}
