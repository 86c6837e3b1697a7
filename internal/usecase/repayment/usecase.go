package repayment

import (
	"context"
	"errors"
	"log"
	"time"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/loan"
	domain "creditunion-backoffice/internal/domain/repayment"
	"creditunion-backoffice/internal/domain/uow"
	"creditunion-backoffice/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNoUoW = errors.New("repayment usecase: no unit of work configured")

// Usecase records repayments against a member's active loan and closes the
// loan once it is fully repaid. It never touches the general ledger.
type Usecase struct {
	repo  domain.Repository
	loans loan.Repository
	uow   uow.UnitOfWork
	now  func() time.Time
	prec loan.Precision
}

type Option func(*Usecase)

// WithClock overrides the source of the payment date.
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// NewUsecase: the listings read through repo and loans, Record runs in the UoW.
func NewUsecase(r domain.Repository, loans loan.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{repo: r, loans: loans, uow: tx, now: time.Now, prec: loan.DefaultPrecision}
	for _, o := range opts {
		o(u)
	}
	return u
}

func validateRecord(in RecordRepaymentInput) error {
	fields := map[string]string{}
	if !id.IsID32(in.MemberID) {
		fields["member_id"] = "must be 32-char lowercase hex"
	}
	if !in.Amount.IsPositive() {
		fields["amount"] = "must be greater than 0"
	} else if !loan.HasMaxPlaces(in.Amount, 2) {
		fields["amount"] = "must have at most 2 decimal places"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

// Record inserts a repayment against the member's active loan. The loan row
// stays locked across the insert, the re-sum and the completion check, so
// concurrent repayments on one loan serialize.
func (u *Usecase) Record(ctx context.Context, in RecordRepaymentInput) (*RecordResult, error) {
	if err := validateRecord(in); err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errNoUoW
	}

	var out *RecordResult
	err := u.uow.WithinActiveLoanTx(ctx, in.MemberID, func(r uow.Repos, l *loan.Loan) error {
		rp := domain.New(l, in.Amount, u.now().UTC(), in.RecordedBy)
		if err := r.Repayments.Create(ctx, rp); err != nil {
			return err
		}

		total, err := r.Repayments.SumByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}

		completed := false
		if l.Status == loan.StatusActive && total.GreaterThanOrEqual(l.TotalAmount) {
			l.SetStatus(loan.StatusCompleted)
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			completed = true
		}

		out = &RecordResult{
			Repayment:   toDTO(rp, u.prec),
			LoanID:      l.LoanID,
			TotalPaid:   u.prec.Format(total),
			TotalAmount: u.prec.Format(l.TotalAmount),
			LoanStatus:  string(l.Status),
			Completed:   completed,
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeNoActiveLoan, "no active loan found for member %s", in.MemberID)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("repayment %s recorded on loan %s (total paid %s)", out.Repayment.AmountPaid, out.LoanID, out.TotalPaid)
	if out.Completed {
		log.Printf("loan %s completed", out.LoanID)
	}
	return out, nil
}

// List returns the member's repayments, newest first.
func (u *Usecase) List(ctx context.Context, memberID string) ([]RepaymentDTO, error) {
	rows, err := u.repo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]RepaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i], u.prec))
	}
	return out, nil
}

// ListByLoan returns one loan's repayments, newest first, with the running
// total against the loan amount.
func (u *Usecase) ListByLoan(ctx context.Context, loanID string) (*LoanRepaymentsDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeLoanNotFound, "loan %s not found", loanID)
	}
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	out := &LoanRepaymentsDTO{
		LoanID:      l.LoanID,
		MemberID:    l.MemberID,
		LoanStatus:  string(l.Status),
		TotalAmount: u.prec.Format(l.TotalAmount),
		Repayments:  make([]RepaymentDTO, 0, len(rows)),
	}
	paid := decimal.Zero
	for i := range rows {
		paid = paid.Add(rows[i].AmountPaid)
		out.Repayments = append(out.Repayments, toDTO(&rows[i], u.prec))
	}
	out.TotalPaid = u.prec.Format(paid)
	return out, nil
}
