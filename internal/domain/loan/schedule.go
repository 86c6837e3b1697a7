package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NextPayment is the next scheduled installment of an active loan.
type NextPayment struct {
	Number int
	Date   time.Time
	Amount decimal.Decimal
}

// Schedule is the read-side installment projection of a loan given what has
// been repaid so far. It never mutates the loan.
type Schedule struct {
	Installment       decimal.Decimal // total/term at money scale
	PaidInstallments  int
	NextInstallmentNo int
	Next              *NextPayment // nil once every installment is covered
}

// MonthlyInstallment is total_amount / term at full precision, or zero when
// the term is not positive.
func (p Precision) MonthlyInstallment(l *Loan) decimal.Decimal {
	if l.Term <= 0 {
		return decimal.Zero
	}
	return p.Div(l.TotalAmount, decimal.NewFromInt(int64(l.Term)))
}

// Project derives the schedule for l after totalPaid has been repaid.
//
// Installments are counted against the installment as billed, i.e. rounded
// to the money scale, so paying the billed amount always covers one
// installment.
func (p Precision) Project(l *Loan, totalPaid decimal.Decimal) Schedule {
	inst := p.Round(p.MonthlyInstallment(l))

	paid := 0
	if inst.IsPositive() && totalPaid.IsPositive() {
		paid = int(p.Div(totalPaid, inst).Floor().IntPart())
	}
	s := Schedule{
		Installment:       inst,
		PaidInstallments:  paid,
		NextInstallmentNo: paid + 1,
	}
	if s.NextInstallmentNo <= l.Term {
		s.Next = &NextPayment{
			Number: s.NextInstallmentNo,
			Date:   AddMonths(DateOf(l.CreatedAt), s.NextInstallmentNo),
			Amount: inst,
		}
	}
	return s
}

// InterestPaid is totalPaid - principal. It goes negative while the
// principal is not yet repaid; it is a display figure, not interest accounting.
func InterestPaid(l *Loan, totalPaid decimal.Decimal) decimal.Decimal {
	return totalPaid.Sub(l.Principal)
}

// Reference is the member-facing loan number, e.g. LN-2024-0007.
func Reference(l *Loan) string {
	return fmt.Sprintf("LN-%d-%04d", l.CreatedAt.Year(), l.ID)
}
