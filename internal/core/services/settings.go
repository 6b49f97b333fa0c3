package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"

	keyDefaultMethod     = "analysis.default_method"
	keyDefaultLanguage   = "analysis.default_language"
	keyMaxFileBytes      = "analysis.max_file_bytes"
	keyMinTextChars      = "analysis.min_text_chars"
	keyMaxQueryChars     = "analysis.max_query_chars"
	keySearchTopK        = "analysis.search_top_k"
	keyResultsShown      = "analysis.results_shown"
	keyVectorWeight      = "analysis.vector_weight"
	keyRequestsPerMinute = "analysis.requests_per_minute"
)

// apiKeyEnv names the environment variable that supplies a missing API key.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGemini:    "GEMINI_API_KEY",
}

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetGetenv replaces the environment lookup used for API key fallbacks.
func (s *SettingsService) SetGetenv(getenv func(string) string) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	s.getenv = getenv
}

// Get retrieves current application settings. An empty API key is filled
// from the provider's environment variable; the value is not persisted.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Analysis: domain.AnalysisSettings{
			DefaultMethod:     s.getString(keyDefaultMethod, defaults.Analysis.DefaultMethod),
			DefaultLanguage:   s.getString(keyDefaultLanguage, defaults.Analysis.DefaultLanguage),
			MaxFileBytes:      int64(s.getInt(keyMaxFileBytes, int(defaults.Analysis.MaxFileBytes))),
			MinTextChars:      s.getInt(keyMinTextChars, defaults.Analysis.MinTextChars),
			MaxQueryChars:     s.getInt(keyMaxQueryChars, defaults.Analysis.MaxQueryChars),
			SearchTopK:        s.getInt(keySearchTopK, defaults.Analysis.SearchTopK),
			ResultsShown:      s.getInt(keyResultsShown, defaults.Analysis.ResultsShown),
			VectorWeight:      s.getFloat(keyVectorWeight, defaults.Analysis.VectorWeight),
			RequestsPerMinute: s.configStore.GetInt(keyRequestsPerMinute),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if key := settings.Embedding.APIKey; key != "" && key != s.envAPIKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, key); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if key := settings.LLM.APIKey; key != "" && key != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, key); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save analysis settings
	a := settings.Analysis
	for _, kv := range []struct {
		key   string
		value any
	}{
		{keyDefaultMethod, a.DefaultMethod},
		{keyDefaultLanguage, a.DefaultLanguage},
		{keyMaxFileBytes, a.MaxFileBytes},
		{keyMinTextChars, a.MinTextChars},
		{keyMaxQueryChars, a.MaxQueryChars},
		{keySearchTopK, a.SearchTopK},
		{keyResultsShown, a.ResultsShown},
		{keyVectorWeight, a.VectorWeight},
		{keyRequestsPerMinute, a.RequestsPerMinute},
	} {
		if err := s.configStore.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s (or set %s)", provider, apiKeyEnv[provider])
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s (or set %s)", provider, apiKeyEnv[provider])
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetDefaults updates the default analysis method and language.
// Empty values leave the current default unchanged.
func (s *SettingsService) SetDefaults(method, language string) error {
	if method != "" && !domain.IsMethod(method) {
		return fmt.Errorf("%w: unknown method %q", domain.ErrInvalidInput, method)
	}
	if language != "" && !domain.IsLanguage(language) {
		return fmt.Errorf("%w: unknown language %q", domain.ErrInvalidInput, language)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if method != "" {
		settings.Analysis.DefaultMethod = method
	}
	if language != "" {
		settings.Analysis.DefaultLanguage = language
	}
	return s.Save(settings)
}

// Validate checks that analysis can run with the current settings.
// Embedding is optional: without it reports are stored unsearchable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: configure an LLM provider with 'safety settings llm'", domain.ErrLLMUnavailable)
	}

	a := settings.Analysis
	switch {
	case !domain.IsMethod(a.DefaultMethod):
		return fmt.Errorf("invalid default method: %q", a.DefaultMethod)
	case !domain.IsLanguage(a.DefaultLanguage):
		return fmt.Errorf("invalid default language: %q", a.DefaultLanguage)
	case a.MaxFileBytes <= 0:
		return fmt.Errorf("analysis.max_file_bytes must be positive")
	case a.SearchTopK < a.ResultsShown:
		return fmt.Errorf("analysis.search_top_k (%d) must not be below analysis.results_shown (%d)",
			a.SearchTopK, a.ResultsShown)
	case a.VectorWeight < 0 || a.VectorWeight > 1:
		return fmt.Errorf("analysis.vector_weight must be within [0,1], got %v", a.VectorWeight)
	case a.RequestsPerMinute < 0:
		return fmt.Errorf("analysis.requests_per_minute must not be negative")
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	name, ok := apiKeyEnv[provider]
	if !ok || s.getenv == nil {
		return ""
	}
	return s.getenv(name)
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a configured local endpoint and clears it for cloud providers.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}
