package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore is an in-memory implementation of driven.ReportStore.
// It follows the same retention policy as the SQLite store.
type ReportStore struct {
	mu       sync.RWMutex
	nextID   int64
	reports  []domain.Report
	versions map[string]int
	now      func() time.Time
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		nextID:   1,
		versions: make(map[string]int),
		now:      time.Now,
	}
}

// Replace stores r as the only row for its document key.
func (s *ReportStore) Replace(_ context.Context, r *domain.Report) error {
	if r.FullMarkdown == "" {
		return fmt.Errorf("%w: report body is empty", domain.ErrInvalidInput)
	}
	if r.DocKey == "" {
		r.DocKey = domain.DocKey(r.FileName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxVersion := 0
	kept := s.reports[:0]
	for _, existing := range s.reports {
		if existing.DocKey == r.DocKey {
			if existing.Version > maxVersion {
				maxVersion = existing.Version
			}
			continue
		}
		kept = append(kept, existing)
	}
	s.reports = kept

	r.ID = s.nextID
	s.nextID++
	r.CreatedAt = s.now().UTC().Truncate(time.Second)
	r.Version = maxVersion + 1
	r.IsCurrent = true

	stored := *r
	stored.Embedding = append([]float32(nil), r.Embedding...)
	s.reports = append(s.reports, stored)
	return nil
}

// FetchCurrent returns every current report in insertion order.
func (s *ReportStore) FetchCurrent(_ context.Context) ([]*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Report, 0, len(s.reports))
	for i := range s.reports {
		if !s.reports[i].IsCurrent {
			continue
		}
		r := s.reports[i]
		result = append(result, &r)
	}
	return result, nil
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(_ context.Context, id int64) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			r := s.reports[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Count returns the number of stored rows.
func (s *ReportStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports), nil
}
