package ledger

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"creditunion-backoffice/internal/domain/apperr"
	domain "creditunion-backoffice/internal/domain/ledger"
	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecentLimit is how many rows the dashboard lists.
const RecentLimit = 6

// Usecase posts to and reads the general transaction ledger.
type Usecase struct {
	repo domain.Repository
	now  func() time.Time
	prec loan.Precision
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(r domain.Repository, opts ...Option) *Usecase {
	u := &Usecase{repo: r, now: time.Now, prec: loan.DefaultPrecision}
	for _, o := range opts {
		o(u)
	}
	return u
}

// SumByTypes is the exact total of the member's rows of the given types
// within r.
func (u *Usecase) SumByTypes(ctx context.Context, memberID string, types []domain.Type, r domain.Range) (decimal.Decimal, error) {
	return u.repo.SumByTypes(ctx, memberID, types, r)
}

// Balance is credits minus debits over the member's whole history.
func (u *Usecase) Balance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	credits, err := u.repo.SumByTypes(ctx, memberID, domain.Credits, domain.Range{})
	if err != nil {
		return decimal.Zero, err
	}
	debits, err := u.repo.SumByTypes(ctx, memberID, domain.Debits, domain.Range{})
	if err != nil {
		return decimal.Zero, err
	}
	return credits.Sub(debits), nil
}

func yearToDate(now time.Time) domain.Range {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return domain.Range{From: start, To: end}
}

// Dashboard builds the member's savings overview for the current year.
func (u *Usecase) Dashboard(ctx context.Context, memberID string) (*DashboardDTO, error) {
	ytd := yearToDate(u.now().UTC())

	savings, err := u.repo.SumByTypes(ctx, memberID, []domain.Type{domain.TypeDeposit}, ytd)
	if err != nil {
		return nil, err
	}
	withdrawals, err := u.repo.SumByTypes(ctx, memberID, []domain.Type{domain.TypeWithdrawal}, ytd)
	if err != nil {
		return nil, err
	}
	balance, err := u.Balance(ctx, memberID)
	if err != nil {
		return nil, err
	}

	recent, err := u.repo.Recent(ctx, memberID, RecentLimit)
	if err != nil {
		return nil, err
	}
	months, err := u.repo.MonthlyTotals(ctx, memberID, domain.TypeDeposit, ytd)
	if err != nil {
		return nil, err
	}

	out := &DashboardDTO{
		Summary: BalanceSummary{
			TotalSavings:     u.prec.Format(savings),
			TotalWithdrawals: u.prec.Format(withdrawals),
			CurrentBalance:   u.prec.Format(balance),
		},
		RecentTransactions: make([]TransactionDTO, 0, len(recent)),
		SavingsTrend:       make([]TrendPoint, 0, len(months)),
	}
	for _, tx := range recent {
		out.RecentTransactions = append(out.RecentTransactions, TransactionDTO{
			ID:          tx.ID,
			Date:        tx.Date.Format(dateLayout),
			Type:        string(tx.Type),
			Amount:      u.prec.Format(tx.Amount),
			Description: tx.Notes,
		})
	}
	for _, m := range months {
		out.SavingsTrend = append(out.SavingsTrend, TrendPoint{Month: m.Month.String(), Amount: u.prec.Format(m.Total)})
	}
	return out, nil
}

func validateRecord(in RecordTransactionInput) error {
	fields := map[string]string{}
	if !id.IsID32(in.MemberID) {
		fields["member_id"] = "must be 32-char lowercase hex"
	}
	if !id.IsID32(in.RecordedBy) {
		fields["account_officer"] = "must be 32-char lowercase hex"
	}
	if !in.Type.Valid() {
		fields["transaction_type"] = "must be one of deposit, withdrawal, loan_repayment, charges, interest_earned"
	}
	if !in.Amount.IsPositive() {
		fields["amount"] = "must be greater than 0"
	} else if !loan.HasMaxPlaces(in.Amount, 2) {
		fields["amount"] = "must have at most 2 decimal places"
	}
	if in.Reference != nil && len(*in.Reference) > 100 {
		fields["reference"] = "must be at most 100 characters"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

// Record posts one row to the member's ledger. The caller is stamped as the
// account officer. The date defaults to today.
func (u *Usecase) Record(ctx context.Context, in RecordTransactionInput) (*EntryDTO, error) {
	if in.Reference != nil {
		ref := strings.TrimSpace(*in.Reference)
		in.Reference = &ref
		if ref == "" {
			in.Reference = nil
		}
	}
	if err := validateRecord(in); err != nil {
		return nil, err
	}

	date := u.now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}
	officer := in.RecordedBy
	tx := &domain.Transaction{
		MemberID:         in.MemberID,
		AccountOfficerID: &officer,
		Type:             in.Type,
		Amount:           in.Amount,
		Date:             time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Reference:        in.Reference,
		Notes:            strings.TrimSpace(in.Notes),
	}
	if err := u.repo.Create(ctx, tx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) && in.Reference != nil {
			return nil, apperr.Conflict(apperr.CodeReferenceTaken, "reference %s is already posted", *in.Reference).Wrap(err)
		}
		return nil, err
	}

	log.Printf("ledger %s %s posted for member %s by %s", tx.Type, u.prec.Format(tx.Amount), tx.MemberID, officer)
	out := u.toEntry(tx)
	return &out, nil
}

// Get returns one ledger row by id.
func (u *Usecase) Get(ctx context.Context, txID uint64) (*EntryDTO, error) {
	tx, err := u.repo.GetByID(ctx, txID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeTransactionNotFound, "transaction %d not found", txID)
	}
	if err != nil {
		return nil, err
	}
	out := u.toEntry(tx)
	return &out, nil
}

// List returns the member's ledger, newest first.
func (u *Usecase) List(ctx context.Context, memberID string) ([]EntryDTO, error) {
	rows, err := u.repo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, u.toEntry(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) toEntry(tx *domain.Transaction) EntryDTO {
	return EntryDTO{
		ID:               tx.ID,
		MemberID:         tx.MemberID,
		AccountOfficerID: tx.AccountOfficerID,
		Type:             string(tx.Type),
		Amount:           u.prec.Format(tx.Amount),
		Date:             tx.Date.Format(dateLayout),
		Reference:        tx.Reference,
		Notes:            tx.Notes,
	}
}
