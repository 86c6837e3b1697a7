package repayment

import (
	"github.com/shopspring/decimal"

	"creditunion-backoffice/internal/domain/loan"
	domain "creditunion-backoffice/internal/domain/repayment"
)

type RecordRepaymentInput struct {
	MemberID string
	Amount   decimal.Decimal
	// Officer who recorded the payment; nil when the member paid directly.
	RecordedBy *string
}

type RepaymentDTO struct {
	ID          uint64  `json:"id"`
	MemberID    string  `json:"member_id"`
	AmountPaid  string  `json:"amount_paid"`
	PaymentDate string  `json:"payment_date"`
	RecordedBy  *string `json:"recorded_by,omitempty"`
}

// RecordResult is what Record reports back: the new row, the running total
// for the loan and whether this payment closed it.
type RecordResult struct {
	Repayment   RepaymentDTO `json:"repayment"`
	LoanID      string       `json:"loan_id"`
	TotalPaid   string       `json:"total_paid"`
	TotalAmount string       `json:"total_amount"`
	LoanStatus  string       `json:"loan_status"`
	Completed   bool         `json:"completed"`
}

// LoanRepaymentsDTO is the repayment history of a single loan.
type LoanRepaymentsDTO struct {
	LoanID      string         `json:"loan_id"`
	MemberID    string         `json:"member_id"`
	LoanStatus  string         `json:"loan_status"`
	TotalAmount string         `json:"total_amount"`
	TotalPaid   string         `json:"total_paid"`
	Repayments  []RepaymentDTO `json:"repayments"`
}

const dateLayout = "2006-01-02"

func toDTO(r *domain.Repayment, p loan.Precision) RepaymentDTO {
	return RepaymentDTO{
		ID:          r.ID,
		MemberID:    r.MemberID,
		AmountPaid:  p.Format(r.AmountPaid),
		PaymentDate: r.PaymentDate.Format(dateLayout),
		RecordedBy:  r.RecordedBy,
	}
}
