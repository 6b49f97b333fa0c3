package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// Ensure ClassificationService implements the interface.
var _ driving.ClassificationService = (*ClassificationService)(nil)

// Classification call parameters.
const (
	classifyMaxTokens   = 180
	classifyTemperature = 0.2
)

// errNoClassification is returned when a model response carries none of
// the expected keys.
var errNoClassification = errors.New("response has no occurrence, severity or probability")

// Classifier proposes a classification for a report body.
type Classifier interface {
	Classify(ctx context.Context, body string) (domain.Classification, error)
}

// LLMClassifier asks the LLM to pick from the controlled vocabulary.
type LLMClassifier struct {
	llm     driven.LLMService
	prompts promptRenderer
}

// NewLLMClassifier creates an LLM-backed classifier.
func NewLLMClassifier(llm driven.LLMService, prompts driven.PromptStore) *LLMClassifier {
	return &LLMClassifier{llm: llm, prompts: promptRenderer{store: prompts}}
}

// Classify returns the model's proposal. Values are not checked against the
// vocabulary here.
func (c *LLMClassifier) Classify(ctx context.Context, body string) (domain.Classification, error) {
	if c.llm == nil {
		return domain.Classification{}, domain.ErrLLMUnavailable
	}

	prompt, err := c.prompts.render(driven.PromptClassify, classifyPrompt{
		Occurrences:   domain.OccurrenceList,
		Severities:    domain.SeverityOptions,
		Probabilities: domain.ProbabilityOptions,
		Body:          body,
	})
	if err != nil {
		return domain.Classification{}, err
	}

	raw, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   classifyMaxTokens,
		Temperature: driven.Temperature(classifyTemperature),
		JSON:        true,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}

	var picked domain.Classification
	if err := decodeJSONObject(raw, &picked); err != nil {
		return domain.Classification{}, fmt.Errorf("parse classification: %w", err)
	}
	if picked.Occurrence == "" && picked.Severity == "" && picked.Probability == "" {
		return domain.Classification{}, errNoClassification
	}
	picked.Source = domain.ClassifierSourceLLM
	return picked, nil
}

// KeywordClassifier is the deterministic phrase rule.
type KeywordClassifier struct{}

// Classify never fails.
func (KeywordClassifier) Classify(_ context.Context, body string) (domain.Classification, error) {
	return domain.ClassifyByKeywords(body), nil
}

// FallbackClassifier uses Fallback whenever Primary fails.
type FallbackClassifier struct {
	Primary  Classifier
	Fallback Classifier
}

// Classify tries the primary classifier first.
func (c FallbackClassifier) Classify(ctx context.Context, body string) (domain.Classification, error) {
	if c.Primary != nil {
		picked, err := c.Primary.Classify(ctx, body)
		if err == nil {
			return picked, nil
		}
		logger.Warn("Classifier fell back to keyword rules: %v", err)
	}
	return c.Fallback.Classify(ctx, body)
}

// ClassificationService maps reports onto the controlled vocabulary.
type ClassificationService struct {
	classifier Classifier
}

// NewClassificationService creates a classification service. With a nil LLM
// only the keyword rules are used.
func NewClassificationService(llm driven.LLMService, prompts driven.PromptStore) *ClassificationService {
	var primary Classifier
	if llm != nil {
		primary = NewLLMClassifier(llm, prompts)
	}
	return NewClassificationServiceWith(FallbackClassifier{Primary: primary, Fallback: KeywordClassifier{}})
}

// NewClassificationServiceWith creates a classification service around any classifier.
func NewClassificationServiceWith(classifier Classifier) *ClassificationService {
	return &ClassificationService{classifier: classifier}
}

// Classify proposes a classification and merges it into current.
func (s *ClassificationService) Classify(
	ctx context.Context, markdown string, current domain.Classification,
) (domain.Classification, error) {
	body := domain.StripEnvelope(markdown)
	if body == "" {
		return current, fmt.Errorf("%w: no report text to classify", domain.ErrInvalidInput)
	}

	picked, err := s.classifier.Classify(ctx, body)
	if err != nil {
		return current, fmt.Errorf("classify report: %w", err)
	}

	merged := domain.MergeClassification(current, picked)
	logger.Info("Classified as %q / %s / %s (%s)", merged.Occurrence, merged.Severity, merged.Probability, merged.Source)
	return merged, nil
}

// Apply writes the classification into the report, keeping its presentation header.
func (s *ClassificationService) Apply(markdown string, c domain.Classification) (string, error) {
	if domain.StripEnvelope(markdown) == "" {
		return "", fmt.Errorf("%w: no report to apply the classification to", domain.ErrInvalidInput)
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	return domain.ApplyClassificationToDisplay(markdown, c), nil
}
