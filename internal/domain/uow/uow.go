package uow

import (
	"context"

	"creditunion-backoffice/internal/domain/ledger"
	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/domain/repayment"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans      loan.Repository
	Repayments repayment.Repository
	Ledger     ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan by public id first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
	// lock the member's active loan first, then pass it in
	WithinActiveLoanTx(ctx context.Context, memberID string, fn func(r Repos, l *loan.Loan) error) error
}
