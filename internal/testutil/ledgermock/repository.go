package ledgermock

import (
	"context"

	domain "creditunion-backoffice/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, tx *domain.Transaction) error
	GetByIDFn        func(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetByReferenceFn func(ctx context.Context, reference string) (*domain.Transaction, error)
	ListByMemberFn   func(ctx context.Context, memberID string) ([]domain.Transaction, error)
	SumByTypesFn     func(ctx context.Context, memberID string, types []domain.Type, r domain.Range) (decimal.Decimal, error)
	RecentFn         func(ctx context.Context, memberID string, limit int) ([]domain.Transaction, error)
	MonthlyTotalsFn  func(ctx context.Context, memberID string, t domain.Type, r domain.Range) ([]domain.MonthTotal, error)
}

func (m *Repo) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	if m.GetByReferenceFn != nil {
		return m.GetByReferenceFn(ctx, reference)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByMemberID(ctx context.Context, memberID string) ([]domain.Transaction, error) {
	if m.ListByMemberFn != nil {
		return m.ListByMemberFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) SumByTypes(ctx context.Context, memberID string, types []domain.Type, r domain.Range) (decimal.Decimal, error) {
	if m.SumByTypesFn != nil {
		return m.SumByTypesFn(ctx, memberID, types, r)
	}
	return decimal.Zero, context.Canceled
}

func (m *Repo) Recent(ctx context.Context, memberID string, limit int) ([]domain.Transaction, error) {
	if m.RecentFn != nil {
		return m.RecentFn(ctx, memberID, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) MonthlyTotals(ctx context.Context, memberID string, t domain.Type, r domain.Range) ([]domain.MonthTotal, error) {
	if m.MonthlyTotalsFn != nil {
		return m.MonthlyTotalsFn(ctx, memberID, t, r)
	}
	return nil, context.Canceled
}
