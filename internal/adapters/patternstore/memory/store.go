// Package memory is the reference in-memory PatternStore the demo server
// runs against (SPEC_FULL.md §1). It carries no persistence guarantees and
// is not a production persistence layer. A real deployment would swap this for a
// SQL-backed PatternStore without the engine package noticing.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/fiscalsim/internal/apperrors"
	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/ports"
)

// Store holds companies and their revenue/expense patterns keyed by company
// id, guarded by a single RWMutex since pattern lists are small and reads
// vastly outnumber writes.
type Store struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
	revenue   map[string][]domain.Pattern
	expense   map[string][]domain.Pattern
}

var _ ports.PatternStore = (*Store)(nil)

// New builds an empty Store.
func New() *Store {
	return &Store{
		companies: make(map[string]domain.Company),
		revenue:   make(map[string][]domain.Pattern),
		expense:   make(map[string][]domain.Pattern),
	}
}

// PutCompany registers or replaces a company.
func (s *Store) PutCompany(c domain.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

// PutRevenuePatterns replaces a company's revenue patterns wholesale.
func (s *Store) PutRevenuePatterns(companyID string, patterns []domain.Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revenue[companyID] = patterns
}

// PutExpensePatterns replaces a company's expense patterns wholesale.
func (s *Store) PutExpensePatterns(companyID string, patterns []domain.Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expense[companyID] = patterns
}

// GetCompany implements ports.PatternStore.
func (s *Store) GetCompany(ctx context.Context, id string) (domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return domain.Company{}, apperrors.NewNotFoundError("company", id)
	}
	return c, nil
}

// ListRevenuePatterns implements ports.PatternStore.
func (s *Store) ListRevenuePatterns(ctx context.Context, companyID string) ([]domain.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Pattern{}, s.revenue[companyID]...), nil
}

// ListExpensePatterns implements ports.PatternStore.
func (s *Store) ListExpensePatterns(ctx context.Context, companyID string) ([]domain.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Pattern{}, s.expense[companyID]...), nil
}
