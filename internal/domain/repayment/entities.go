package repayment

import (
	"time"

	"github.com/shopspring/decimal"

	"creditunion-backoffice/internal/domain/loan"
)

// Table: loan_repayments. Rows are append-only.
type Repayment struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// FK to loans.id (numeric)
	LoanID uint64 `gorm:"column:loan_id;not null;index:idx_repayments_loan" json:"-"`
	// Copied from the owning loan by New; never taken from input.
	MemberID    string          `gorm:"column:member_id;type:char(32);not null;index:idx_repayments_member" json:"member_id"`
	AmountPaid  decimal.Decimal `gorm:"column:amount_paid;type:decimal(12,2);not null" json:"amount_paid"`
	PaymentDate time.Time       `gorm:"column:payment_date;type:date;not null" json:"payment_date"`
	RecordedBy  *string         `gorm:"column:recorded_by;type:char(32)" json:"recorded_by,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "loan_repayments" }

// New builds a repayment against l. The member is taken from the loan so the
// two can never disagree.
func New(l *loan.Loan, amount decimal.Decimal, paidOn time.Time, recordedBy *string) *Repayment {
	return &Repayment{
		LoanID:      l.ID,
		MemberID:    l.MemberID,
		AmountPaid:  amount,
		PaymentDate: loan.DateOf(paidOn),
		RecordedBy:  recordedBy,
	}
}
