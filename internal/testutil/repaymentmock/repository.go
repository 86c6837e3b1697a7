package repaymentmock

import (
	"context"

	domain "creditunion-backoffice/internal/domain/repayment"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, r *domain.Repayment) error
	SumByLoanIDFn    func(ctx context.Context, loanID uint64) (decimal.Decimal, error)
	SumByLoanIDsFn   func(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error)
	ListByLoanIDFn   func(ctx context.Context, loanID uint64) ([]domain.Repayment, error)
	ListByMemberIDFn func(ctx context.Context, memberID string) ([]domain.Repayment, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) SumByLoanID(ctx context.Context, loanID uint64) (decimal.Decimal, error) {
	if m.SumByLoanIDFn != nil {
		return m.SumByLoanIDFn(ctx, loanID)
	}
	return decimal.Zero, context.Canceled
}

func (m *Repo) SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error) {
	if m.SumByLoanIDsFn != nil {
		return m.SumByLoanIDsFn(ctx, loanIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Repayment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByMemberID(ctx context.Context, memberID string) ([]domain.Repayment, error) {
	if m.ListByMemberIDFn != nil {
		return m.ListByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}
