package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "creditunion-backoffice/internal/domain/loan"
)

type RequestLoanInput struct {
	MemberID     string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // annual, percent
	TermMonths   int
	Purpose      string
	// Set when an officer records the request on the member's behalf.
	OfficerID *string
}

// LoanDTO renders money at 2 places and dates as YYYY-MM-DD.
type LoanDTO struct {
	LoanID           string  `json:"loan_id"`
	Reference        string  `json:"reference"`
	MemberID         string  `json:"member_id"`
	AccountOfficerID *string `json:"account_officer_id,omitempty"`
	Principal        string  `json:"principal"`
	InterestRate     string  `json:"interest_rate"`
	Term             int     `json:"term"`
	TotalAmount      string  `json:"total_amount"`
	Status           string  `json:"status"`
	Purpose          string  `json:"purpose"`
	RequestDate      string  `json:"request_date"`
	DisbursedDate    *string `json:"disbursed_date,omitempty"`
	DueDate          *string `json:"due_date,omitempty"`
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toDTO(l *domain.Loan, p domain.Precision) *LoanDTO {
	return &LoanDTO{
		LoanID:           l.LoanID,
		Reference:        domain.Reference(l),
		MemberID:         l.MemberID,
		AccountOfficerID: l.AccountOfficerID,
		Principal:        p.Format(l.Principal),
		InterestRate:     p.Format(l.InterestRate),
		Term:             l.Term,
		TotalAmount:      p.Format(l.TotalAmount),
		Status:           string(l.Status),
		Purpose:          l.Purpose,
		RequestDate:      l.CreatedAt.Format(dateLayout),
		DisbursedDate:    formatDate(l.DisbursedDate),
		DueDate:          formatDate(l.DueDate),
	}
}

func toDTOs(ls []domain.Loan, p domain.Precision) []*LoanDTO {
	out := make([]*LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, toDTO(&ls[i], p))
	}
	return out
}
