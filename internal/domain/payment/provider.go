// Package payment is the contract of the mobile-money payment provider.
// The provider only feeds deposits into the ledger; it never sees loans.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrProvider = errors.New("payment provider error")

type Status string

const (
	StatusSuccess Status = "success"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

type Checkout struct {
	Reference   string
	RedirectURL string
}

type Verification struct {
	Reference string
	Status    Status
	Amount    decimal.Decimal
	// MemberID is the member the checkout was opened for, as echoed back by
	// the provider. Empty when the checkout carried no owner.
	MemberID string
}

type Provider interface {
	// Initiate opens a checkout owned by memberID and billed to email.
	Initiate(ctx context.Context, memberID, email string, amount decimal.Decimal) (*Checkout, error)
	Verify(ctx context.Context, reference string) (*Verification, error)
}
