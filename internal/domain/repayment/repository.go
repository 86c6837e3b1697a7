package repayment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, r *Repayment) error

	// SumByLoanID is the exact total repaid against a loan (zero if none).
	SumByLoanID(ctx context.Context, loanID uint64) (decimal.Decimal, error)
	// SumByLoanIDs totals several loans at once; loans without repayments are absent.
	SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error)

	ListByLoanID(ctx context.Context, loanID uint64) ([]Repayment, error)
	ListByMemberID(ctx context.Context, memberID string) ([]Repayment, error)
}
