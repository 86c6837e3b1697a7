package loan

import (
	"context"
	"errors"
	"log"
	"time"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/domain/uow"
	"creditunion-backoffice/pkg/id"

	"gorm.io/gorm"
)

var errNoUoW = errors.New("loan usecase: no unit of work configured")

// Usecase is the loan lifecycle manager: it owns every status transition
// and the one-pending/one-active loan per member rule.
type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
	now  func() time.Time
	prec loan.Precision
}

type Option func(*Usecase)

// WithClock overrides the source of "today" (disbursement and request dates).
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithPrecision(p loan.Precision) Option { return func(u *Usecase) { u.prec = p } }

// NewUsecase: reads go through repo, transitions through the UoW.
func NewUsecase(r loan.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{repo: r, uow: tx, now: time.Now, prec: loan.DefaultPrecision}
	for _, o := range opts {
		o(u)
	}
	return u
}

func validateRequest(in RequestLoanInput) error {
	fields := map[string]string{}
	if !id.IsID32(in.MemberID) {
		fields["member_id"] = "must be 32-char lowercase hex"
	}
	if !in.Principal.IsPositive() {
		fields["principal"] = "must be greater than 0"
	} else if !loan.HasMaxPlaces(in.Principal, 2) {
		fields["principal"] = "must have at most 2 decimal places"
	}
	if in.InterestRate.IsNegative() {
		fields["interest_rate"] = "must not be negative"
	} else if !loan.HasMaxPlaces(in.InterestRate, 2) {
		fields["interest_rate"] = "must have at most 2 decimal places"
	}
	if in.TermMonths <= 0 {
		fields["term"] = "must be a positive number of months"
	}
	if in.OfficerID != nil && !id.IsID32(*in.OfficerID) {
		fields["account_officer_id"] = "must be 32-char lowercase hex"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

// Request creates a pending loan. The pending check and the insert share one
// transaction, and the pending guard index rejects a concurrent twin.
func (u *Usecase) Request(ctx context.Context, in RequestLoanInput) (*LoanDTO, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errNoUoW
	}
	conflict := apperr.Conflict(apperr.CodePendingLoanExists, "member %s already has a pending loan request", in.MemberID)

	var created *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Block if the member already has a pending loan.
		pending, err := r.Loans.GetPendingByMemberID(ctx, in.MemberID)
		switch {
		case err == nil:
			return apperr.Conflict(apperr.CodePendingLoanExists,
				"member %s already has a pending loan request: %s", in.MemberID, pending.LoanID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		l := &loan.Loan{
			LoanID:           id.NewID32(),
			MemberID:         in.MemberID,
			AccountOfficerID: in.OfficerID,
			Principal:        in.Principal,
			InterestRate:     in.InterestRate,
			Term:             in.TermMonths,
			Purpose:          in.Purpose,
			CreatedAt:        u.now().UTC(),
		}
		// fixed once here; never recomputed
		l.TotalAmount = u.prec.Round(u.prec.TotalObligation(in.Principal, in.InterestRate, in.TermMonths))
		l.SetStatus(loan.StatusPending)

		if err := r.Loans.Create(ctx, l); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict.Wrap(err)
			}
			return err
		}
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("loan %s requested for member %s (total %s)", created.LoanID, created.MemberID, u.prec.Format(created.TotalAmount))
	return toDTO(created, u.prec), nil
}

// Approve: pending -> active. Disbursement is today; due date follows the term.
func (u *Usecase) Approve(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, "approved", []loan.Status{loan.StatusPending}, func(l *loan.Loan) {
		l.Activate(u.now().UTC())
	})
}

// Reject: pending -> rejected.
func (u *Usecase) Reject(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, "rejected", []loan.Status{loan.StatusPending}, func(l *loan.Loan) {
		l.SetStatus(loan.StatusRejected)
	})
}

// Cancel: pending or active -> cancelled.
func (u *Usecase) Cancel(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, "cancelled", []loan.Status{loan.StatusPending, loan.StatusActive}, func(l *loan.Loan) {
		l.SetStatus(loan.StatusCancelled)
	})
}

func (u *Usecase) transition(ctx context.Context, loanID, verb string, from []loan.Status, apply func(*loan.Loan)) (*LoanDTO, error) {
	if u.uow == nil {
		return nil, errNoUoW
	}
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !statusIn(l.Status, from) {
			return apperr.InvalidState("only %s loans can be %s; loan %s is %s", joinStatuses(from), verb, l.LoanID, l.Status)
		}
		apply(l)
		if err := r.Loans.Save(ctx, l); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(apperr.CodeActiveLoanExists, "member %s already has an active loan", l.MemberID).Wrap(err)
			}
			return err
		}
		out = l
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeLoanNotFound, "loan %s not found", loanID)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("loan %s %s", out.LoanID, verb)
	return toDTO(out, u.prec), nil
}

func statusIn(s loan.Status, set []loan.Status) bool {
	for _, c := range set {
		if s == c {
			return true
		}
	}
	return false
}

func joinStatuses(set []loan.Status) string {
	out := ""
	for i, s := range set {
		switch {
		case i == 0:
		case i == len(set)-1:
			out += " or "
		default:
			out += ", "
		}
		out += string(s)
	}
	return out
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeLoanNotFound, "loan %s not found", loanID)
	}
	if err != nil {
		return nil, err
	}
	return toDTO(l, u.prec), nil
}

// Active returns the member's active loan.
func (u *Usecase) Active(ctx context.Context, memberID string) (*LoanDTO, error) {
	l, err := u.repo.GetActiveByMemberID(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeNoActiveLoan, "no active loan found")
	}
	if err != nil {
		return nil, err
	}
	return toDTO(l, u.prec), nil
}

// Pending returns the member's pending loan request.
func (u *Usecase) Pending(ctx context.Context, memberID string) (*LoanDTO, error) {
	l, err := u.repo.GetPendingByMemberID(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeNoPendingLoan, "no pending loan found")
	}
	if err != nil {
		return nil, err
	}
	return toDTO(l, u.prec), nil
}

// History lists the member's completed, cancelled and rejected loans.
func (u *Usecase) History(ctx context.Context, memberID string) ([]*LoanDTO, error) {
	ls, err := u.repo.ListByMemberID(ctx, memberID, loan.HistoryStatuses...)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls, u.prec), nil
}

// ListAll lists every loan of the member in any status, newest first.
func (u *Usecase) ListAll(ctx context.Context, memberID string) ([]*LoanDTO, error) {
	ls, err := u.repo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls, u.prec), nil
}

// ListOpen is the officer view: active, pending and rejected loans of all members.
func (u *Usecase) ListOpen(ctx context.Context) ([]*LoanDTO, error) {
	ls, err := u.repo.ListByStatus(ctx, loan.OpenStatuses...)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls, u.prec), nil
}
