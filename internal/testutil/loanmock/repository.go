package loanmock

import (
	"context"

	domain "creditunion-backoffice/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                       func(ctx context.Context, l *domain.Loan) error
	SaveFn                         func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                  func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn         func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetPendingByMemberIDFn         func(ctx context.Context, memberID string) (*domain.Loan, error)
	GetActiveByMemberIDFn          func(ctx context.Context, memberID string) (*domain.Loan, error)
	GetActiveByMemberIDForUpdateFn func(ctx context.Context, memberID string) (*domain.Loan, error)
	ListByMemberIDFn               func(ctx context.Context, memberID string, statuses ...domain.Status) ([]domain.Loan, error)
	ListByStatusFn                 func(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingByMemberID(ctx context.Context, memberID string) (*domain.Loan, error) {
	if m.GetPendingByMemberIDFn != nil {
		return m.GetPendingByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveByMemberID(ctx context.Context, memberID string) (*domain.Loan, error) {
	if m.GetActiveByMemberIDFn != nil {
		return m.GetActiveByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveByMemberIDForUpdate(ctx context.Context, memberID string) (*domain.Loan, error) {
	if m.GetActiveByMemberIDForUpdateFn != nil {
		return m.GetActiveByMemberIDForUpdateFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByMemberID(ctx context.Context, memberID string, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByMemberIDFn != nil {
		return m.ListByMemberIDFn(ctx, memberID, statuses...)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, statuses...)
	}
	return nil, context.Canceled
}
