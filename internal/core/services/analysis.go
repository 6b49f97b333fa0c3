package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// Analysis call parameters.
const (
	analysisMaxTokens = 1200
	revisionMaxTokens = 1500

	// feedbackSessionID tags revision runs in the prompt.
	feedbackSessionID = "FEEDBACK"
)

// AnalysisService turns safety report PDFs into structured analyses.
type AnalysisService struct {
	extractor driven.TextExtractor
	llm       driven.LLMService
	reports   driving.ReportService
	prompts   promptRenderer
	limits    domain.AnalysisSettings

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAnalysisService creates a new analysis service.
// The report service is optional; without it nothing is stored.
func NewAnalysisService(
	extractor driven.TextExtractor,
	llm driven.LLMService,
	reports driving.ReportService,
	prompts driven.PromptStore,
	limits domain.AnalysisSettings,
) *AnalysisService {
	defaults := domain.DefaultAnalysisSettings()
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = defaults.MaxFileBytes
	}
	if limits.MinTextChars <= 0 {
		limits.MinTextChars = defaults.MinTextChars
	}
	if !domain.IsMethod(limits.DefaultMethod) {
		limits.DefaultMethod = defaults.DefaultMethod
	}
	if !domain.IsLanguage(limits.DefaultLanguage) {
		limits.DefaultLanguage = defaults.DefaultLanguage
	}
	return &AnalysisService{
		extractor: extractor,
		llm:       llm,
		reports:   reports,
		prompts:   promptRenderer{store: prompts},
		limits:    limits,
		inFlight:  make(map[string]struct{}),
	}
}

// Analyze validates the input, extracts text, generates the report and
// stores it. A storage failure is reported in the result, not as an error.
func (s *AnalysisService) Analyze(
	ctx context.Context, session *domain.Session, req driving.AnalyzeRequest,
) (*domain.AnalysisResult, error) {
	logger.Section("Analysis")

	if session == nil {
		session = domain.NewSession(uuid.NewString())
	}

	method, language, err := s.choices(req.Method, req.Language)
	if err != nil {
		return nil, err
	}

	name, err := s.validateInput(req)
	if err != nil {
		return nil, err
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	done, err := s.begin(domain.DocKey(name))
	if err != nil {
		return nil, err
	}
	defer done()

	selected := req.Path
	if selected == "" {
		selected = name
	}
	session.Select(selected)
	session.Method = method
	session.Language = language

	text, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}
	session.SourceText = text
	logger.Debug("Extracted %d characters from %s", utf8.RuneCountInString(text), name)

	prompt, err := s.analysisPrompt(method, language, session.ID, text)
	if err != nil {
		return nil, err
	}

	body, err := s.generate(ctx, prompt, analysisMaxTokens)
	if err != nil {
		return nil, err
	}

	display := domain.WithEnvelope(name, method, language, body)
	session.Report = display
	session.LatestRevision = ""

	result := &domain.AnalysisResult{
		FileName: filepath.Base(name),
		Method:   method,
		Language: language,
		Body:     body,
		Display:  display,
	}

	if req.NoSave || s.reports == nil {
		return result, nil
	}

	report, err := s.reports.Insert(ctx, domain.NewReport{
		FileName: result.FileName,
		Method:   method,
		Language: language,
		Markdown: body,
	})
	if err != nil {
		logger.Warn("Analysis kept but not stored: %v", err)
		result.StorageWarning = err.Error()
		return result, nil
	}
	result.Report = report

	return result, nil
}

// Revise re-runs the analysis of the session's file with reviewer feedback.
// The rewrite becomes the session's latest revision.
func (s *AnalysisService) Revise(ctx context.Context, session *domain.Session, feedback string) (string, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return "", fmt.Errorf("%w: enter feedback before submitting", domain.ErrInvalidInput)
	}
	if session == nil || session.SelectedFile == "" {
		return "", fmt.Errorf("%w: select a PDF file first", domain.ErrNoFile)
	}
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	done, err := s.begin(domain.DocKey(session.FileName()))
	if err != nil {
		return "", err
	}
	defer done()

	text := session.SourceText
	if text == "" {
		text, err = s.extract(ctx, driving.AnalyzeRequest{Path: session.SelectedFile})
		if err != nil {
			return "", err
		}
		session.SourceText = text
	}

	base, err := s.analysisPrompt(session.Method, session.Language, feedbackSessionID, text)
	if err != nil {
		return "", err
	}
	extra, err := s.prompts.render(driven.PromptFeedback, feedbackPrompt{Feedback: feedback})
	if err != nil {
		return "", err
	}

	revision, err := s.generate(ctx, base+"\n\n"+extra, revisionMaxTokens)
	if err != nil {
		return "", err
	}

	session.LatestRevision = revision
	logger.Info("Revision ready for %s", session.FileName())
	return revision, nil
}

// SaveRevision stores the latest revision under "<file> (final)".
func (s *AnalysisService) SaveRevision(ctx context.Context, session *domain.Session) (*domain.Report, error) {
	if session == nil || session.LatestRevision == "" {
		return nil, domain.ErrNoRevision
	}
	if s.reports == nil {
		return nil, fmt.Errorf("%w: no report store configured", domain.ErrStorage)
	}

	report, err := s.reports.Insert(ctx, domain.NewReport{
		FileName: session.FinalFileName(),
		Method:   session.Method,
		Language: session.Language,
		Markdown: session.LatestRevision,
	})
	if err != nil {
		return nil, fmt.Errorf("save revision: %w", err)
	}
	return report, nil
}

// choices fills empty method and language from the configured defaults.
func (s *AnalysisService) choices(method, language string) (string, string, error) {
	if method == "" {
		method = s.limits.DefaultMethod
	}
	if language == "" {
		language = s.limits.DefaultLanguage
	}
	if !domain.IsMethod(method) {
		return "", "", fmt.Errorf("%w: unknown method %q, choose one of %s",
			domain.ErrInvalidInput, method, strings.Join(domain.AllMethods(), ", "))
	}
	if !domain.IsLanguage(language) {
		return "", "", fmt.Errorf("%w: unknown language %q, choose one of %s",
			domain.ErrInvalidInput, language, strings.Join(domain.AllLanguages(), ", "))
	}
	return method, language, nil
}

// validateInput rejects missing, empty, oversized and non-PDF files and
// returns the document name.
func (s *AnalysisService) validateInput(req driving.AnalyzeRequest) (string, error) {
	name := req.Name
	if name == "" {
		name = req.Path
	}
	if strings.TrimSpace(name) == "" {
		return "", domain.ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "", domain.ErrNotPDF
	}

	var size int64
	if req.Path != "" && req.Data == nil {
		info, err := os.Stat(req.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", domain.ErrNoFile, req.Path)
			}
			return "", fmt.Errorf("%w: %w", domain.ErrUnreadable, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", domain.ErrNoFile, req.Path)
		}
		size = info.Size()
	} else {
		size = int64(len(req.Data))
	}

	if size == 0 {
		return "", domain.ErrEmptyFile
	}
	if size > s.limits.MaxFileBytes {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", domain.ErrFileTooLarge, size, s.limits.MaxFileBytes)
	}
	return name, nil
}

// extract returns the trimmed document text, rejecting documents with too
// little of it.
func (s *AnalysisService) extract(ctx context.Context, req driving.AnalyzeRequest) (string, error) {
	if s.extractor == nil {
		return "", fmt.Errorf("%w: no text extractor configured", domain.ErrUnreadable)
	}

	var (
		text string
		err  error
	)
	if req.Data != nil {
		text, err = s.extractor.Extract(ctx, req.Data)
	} else {
		text, err = s.extractor.ExtractFile(ctx, req.Path)
	}
	if err != nil {
		if domain.IsInputFault(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrUnreadable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrNoText
	}
	if utf8.RuneCountInString(text) < s.limits.MinTextChars {
		return "", domain.ErrTextTooShort
	}
	return text, nil
}

func (s *AnalysisService) analysisPrompt(method, language, sessionID, text string) (string, error) {
	return s.prompts.render(driven.PromptAnalysis, analysisPrompt{
		Method:       method,
		SessionID:    sessionID,
		SectorLine:   sectorLine,
		LanguageLine: languageLine(analysisLanguageLines, language),
		Text:         text,
	})
}

// generate runs one report-producing LLM call. Failures are fatal.
func (s *AnalysisService) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	logger.Debug("Calling %s (%d prompt chars, max %d tokens)", s.llm.ModelName(), len(prompt), maxTokens)

	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: maxTokens})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: model returned no text", domain.ErrAnalysisFailed)
	}
	return out, nil
}

// begin marks docKey as in flight. The returned func releases it.
func (s *AnalysisService) begin(docKey string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[docKey]; busy {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnalysisInProgress, docKey)
	}
	s.inFlight[docKey] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inFlight, docKey)
		s.mu.Unlock()
	}, nil
}
