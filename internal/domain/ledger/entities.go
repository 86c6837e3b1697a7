package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDeposit        Type = "deposit"
	TypeWithdrawal     Type = "withdrawal"
	TypeLoanRepayment  Type = "loan_repayment"
	TypeCharges        Type = "charges"
	TypeInterestEarned Type = "interest_earned"
)

// Credits and Debits partition the types for the running balance.
var (
	Credits = []Type{TypeDeposit, TypeInterestEarned}
	Debits  = []Type{TypeWithdrawal, TypeLoanRepayment, TypeCharges}
)

func (t Type) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeLoanRepayment, TypeCharges, TypeInterestEarned:
		return true
	}
	return false
}

// Table: transactions
type Transaction struct {
	ID               uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemberID         string          `gorm:"column:member_id;type:char(32);not null;index:idx_transactions_member_date" json:"member_id"`
	AccountOfficerID *string         `gorm:"column:account_officer_id;type:char(32)" json:"account_officer_id,omitempty"`
	Type             Type            `gorm:"column:transaction_type;type:varchar(20);not null" json:"type"`
	Amount           decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Date             time.Time       `gorm:"column:date;type:date;not null;index:idx_transactions_member_date" json:"date"`
	// Provider reference for deposits; unique so a payment is posted once.
	Reference *string `gorm:"column:reference;type:varchar(100);uniqueIndex:ux_transactions_reference" json:"reference,omitempty"`
	Notes     string  `gorm:"column:notes;type:text" json:"notes"`
}

func (Transaction) TableName() string { return "transactions" }
