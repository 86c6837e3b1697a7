package payment

import "github.com/shopspring/decimal"

type InitiateInput struct {
	MemberID string
	Email    string
	Amount   decimal.Decimal
}

type CheckoutDTO struct {
	Status           string `json:"status"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// VerifyResult reports a verification. TransactionID is set once a deposit
// exists for the reference; Recorded is true only on the call that posted it.
type VerifyResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Reference     string `json:"reference"`
	Amount        string `json:"amount,omitempty"`
	TransactionID uint64 `json:"transaction_id,omitempty"`
	Recorded      bool   `json:"recorded"`
}

// DepositNotes tags ledger rows posted from mobile-money checkouts.
const DepositNotes = "momo deposit"
