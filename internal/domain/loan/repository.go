package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)

	GetPendingByMemberID(ctx context.Context, memberID string) (*Loan, error)
	GetActiveByMemberID(ctx context.Context, memberID string) (*Loan, error)
	GetActiveByMemberIDForUpdate(ctx context.Context, memberID string) (*Loan, error)

	// ListByMemberID returns the member's loans in the given states, newest first.
	ListByMemberID(ctx context.Context, memberID string, statuses ...Status) ([]Loan, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Loan, error)
}
