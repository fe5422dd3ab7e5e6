// Package ports defines the engine's external collaborator interfaces —
// PatternStore, ProgressSink, and ResultSink — per spec §6. How these are
// backed (SQL, in-memory, files) is not part of the core; the engine only
// depends on these interfaces.
package ports

import (
	"context"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// PatternStore is read-only from the engine's point of view. Persistence
// and CRUD of patterns/companies are external collaborators (spec §1) —
// this interface is the engine's entire view of them.
type PatternStore interface {
	ListRevenuePatterns(ctx context.Context, companyID string) ([]domain.Pattern, error)
	ListExpensePatterns(ctx context.Context, companyID string) ([]domain.Pattern, error)
	GetCompany(ctx context.Context, id string) (domain.Company, error)
}
