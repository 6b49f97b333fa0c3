package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService derives the stored fields of a report and persists it.
type ReportService struct {
	store     driven.ReportStore
	embedding driven.EmbeddingService
}

// NewReportService creates a new report service.
// The embedding service is optional; without it reports are stored unsearchable.
func NewReportService(store driven.ReportStore, embedding driven.EmbeddingService) *ReportService {
	return &ReportService{
		store:     store,
		embedding: embedding,
	}
}

// Insert derives sections and the embedding of in and stores it as the new
// current version of its document. Embedding failures are logged and the
// report is stored with an empty vector.
func (s *ReportService) Insert(ctx context.Context, in domain.NewReport) (*domain.Report, error) {
	body := domain.StripEnvelope(in.Markdown)
	if body == "" {
		return nil, fmt.Errorf("%w: report body is empty", domain.ErrInvalidInput)
	}

	r := &domain.Report{
		FileName:     strings.TrimSpace(in.FileName),
		DocKey:       domain.DocKey(in.FileName),
		Method:       in.Method,
		Language:     in.Language,
		FullMarkdown: body,
	}
	r.SetSections(domain.ExtractSections(body))

	vec, model := s.embed(ctx, domain.ComposeSimilarityText(body))
	r.Embedding = vec
	r.EmbeddingModel = model

	logger.Debug("Storing report %q (doc key %q, %d dims)", r.FileName, r.DocKey, len(r.Embedding))
	if err := s.store.Replace(ctx, r); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	logger.Info("Stored %q as version %d (id %d)", r.DocKey, r.Version, r.ID)

	return r, nil
}

// List returns all current reports.
func (s *ReportService) List(ctx context.Context) ([]*domain.Report, error) {
	return s.store.FetchCurrent(ctx)
}

// Get retrieves a report by ID.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	return s.store.Get(ctx, id)
}

// embed returns the unit-norm embedding of text and the model name, or an
// empty vector when no embedding could be produced.
func (s *ReportService) embed(ctx context.Context, text string) ([]float32, string) {
	if s.embedding == nil {
		logger.Warn("Embedding skipped: %v", domain.ErrEmbeddingUnavailable)
		return nil, ""
	}
	model := s.embedding.ModelName()

	vec, err := s.embedding.Embed(ctx, text)
	if err != nil {
		logger.Warn("Embedding failed, storing report without vector: %v", err)
		return nil, model
	}
	return Normalize(vec), model
}
