package summary

import (
	"context"
	"errors"

	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/domain/repayment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Usecase projects the member-facing loan summary. It is read only.
type Usecase struct {
	loans      loan.Repository
	repayments repayment.Repository
	prec       loan.Precision
}

func NewUsecase(loans loan.Repository, repayments repayment.Repository) *Usecase {
	return &Usecase{loans: loans, repayments: repayments, prec: loan.DefaultPrecision}
}

// ActiveLoanSummary returns nil, nil when the member has no active loan.
func (u *Usecase) ActiveLoanSummary(ctx context.Context, memberID string) (*ActiveLoanDTO, error) {
	l, err := u.loans.GetActiveByMemberID(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	paid, err := u.repayments.SumByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return u.active(l, paid), nil
}

func (u *Usecase) active(l *loan.Loan, paid decimal.Decimal) *ActiveLoanDTO {
	s := u.prec.Project(l, paid)
	remaining := decimal.Max(l.TotalAmount.Sub(paid), decimal.Zero)
	out := &ActiveLoanDTO{
		Reference:        loan.Reference(l),
		LoanID:           l.LoanID,
		Principal:        u.prec.Format(l.Principal),
		DisbursedDate:    l.CreatedAt.Format(dateLayout),
		Term:             l.Term,
		InterestRate:     u.prec.Format(l.InterestRate),
		TotalAmount:      u.prec.Format(l.TotalAmount),
		MonthlyAmount:    u.prec.Format(s.Installment),
		TotalRepayments:  u.prec.Format(paid),
		BalanceRemaining: u.prec.Format(remaining),
		PaidInstallments: s.PaidInstallments,
	}
	if l.DisbursedDate != nil {
		out.DisbursedDate = l.DisbursedDate.Format(dateLayout)
	}
	if l.DueDate != nil {
		out.DueDate = l.DueDate.Format(dateLayout)
	}
	if s.Next != nil {
		out.NextPayment = &NextPaymentDTO{
			Number: s.Next.Number,
			Date:   s.Next.Date.Format(dateLayout),
			Amount: u.prec.Format(s.Next.Amount),
		}
	}
	return out
}

// LoanHistory lists the member's active and completed loans, newest first,
// with what has been repaid on each.
func (u *Usecase) LoanHistory(ctx context.Context, memberID string) ([]HistoryItemDTO, error) {
	ls, err := u.loans.ListByMemberID(ctx, memberID, loan.SummaryStatuses...)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(ls))
	for i := range ls {
		ids = append(ids, ls[i].ID)
	}
	paid, err := u.repayments.SumByLoanIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryItemDTO, 0, len(ls))
	for i := range ls {
		l := &ls[i]
		total := paid[l.ID]
		item := HistoryItemDTO{
			Reference:    loan.Reference(l),
			LoanID:       l.LoanID,
			Principal:    u.prec.Format(l.Principal),
			InterestPaid: u.prec.Format(loan.InterestPaid(l, total)),
			TotalPayment: u.prec.Format(total),
			Status:       string(l.Status),
		}
		if l.DueDate != nil {
			item.DateClosed = l.DueDate.Format(dateLayout)
		}
		out = append(out, item)
	}
	return out, nil
}

// Summary combines both views, as served on the summary endpoint.
func (u *Usecase) Summary(ctx context.Context, memberID string) (*SummaryDTO, error) {
	active, err := u.ActiveLoanSummary(ctx, memberID)
	if err != nil {
		return nil, err
	}
	hist, err := u.LoanHistory(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &SummaryDTO{ActiveLoan: active, LoanHistory: hist}, nil
}
