package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Range bounds a query by transaction date, both ends inclusive.
// A zero bound is open.
type Range struct {
	From time.Time
	To   time.Time
}

// MonthTotal is the sum of one month's rows.
type MonthTotal struct {
	Month time.Month
	Total decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uint64) (*Transaction, error)
	GetByReference(ctx context.Context, reference string) (*Transaction, error)
	// ListByMemberID returns every row of the member, newest first.
	ListByMemberID(ctx context.Context, memberID string) ([]Transaction, error)

	SumByTypes(ctx context.Context, memberID string, types []Type, r Range) (decimal.Decimal, error)
	Recent(ctx context.Context, memberID string, limit int) ([]Transaction, error)
	// MonthlyTotals groups one type by calendar month within r, ordered by month.
	MonthlyTotals(ctx context.Context, memberID string, t Type, r Range) ([]MonthTotal, error)
}
