package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	domain "creditunion-backoffice/internal/domain/ledger"
)

type RecordTransactionInput struct {
	MemberID string
	Type     domain.Type
	Amount   decimal.Decimal
	// Nil means today.
	Date      *time.Time
	Reference *string
	Notes     string
	// Member id of the officer posting the row.
	RecordedBy string
}

// EntryDTO is one ledger row as the transactions endpoints return it.
type EntryDTO struct {
	ID               uint64  `json:"id"`
	MemberID         string  `json:"member_id"`
	AccountOfficerID *string `json:"account_officer,omitempty"`
	Type             string  `json:"transaction_type"`
	Amount           string  `json:"amount"`
	Date             string  `json:"date"`
	Reference        *string `json:"reference,omitempty"`
	Notes            string  `json:"notes"`
}

type BalanceSummary struct {
	TotalSavings     string `json:"total_savings"`
	TotalWithdrawals string `json:"total_withdrawals"`
	CurrentBalance   string `json:"current_balance"`
}

type TransactionDTO struct {
	ID          uint64 `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type TrendPoint struct {
	Month  string `json:"month"`
	Amount string `json:"amount"`
}

type DashboardDTO struct {
	Summary            BalanceSummary   `json:"summary"`
	RecentTransactions []TransactionDTO `json:"recent_transactions"`
	SavingsTrend       []TrendPoint     `json:"savings_trend"`
}

const dateLayout = "2006-01-02"
