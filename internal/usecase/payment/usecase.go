package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/ledger"
	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/domain/payment"
	"creditunion-backoffice/pkg/id"

	"gorm.io/gorm"
)

// Usecase feeds verified mobile-money deposits into the ledger. It only ever
// writes deposit rows and never touches loans.
type Usecase struct {
	provider payment.Provider
	ledger   ledger.Repository
	now      func() time.Time
	prec     loan.Precision
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(p payment.Provider, l ledger.Repository, opts ...Option) *Usecase {
	u := &Usecase{provider: p, ledger: l, now: time.Now, prec: loan.DefaultPrecision}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Initiate(ctx context.Context, in InitiateInput) (*CheckoutDTO, error) {
	fields := map[string]string{}
	if !id.IsID32(in.MemberID) {
		fields["member_id"] = "must be 32-char lowercase hex"
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if !in.Amount.IsPositive() {
		fields["amount"] = "must be greater than 0"
	} else if !loan.HasMaxPlaces(in.Amount, 2) {
		fields["amount"] = "must have at most 2 decimal places"
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationFields(fields)
	}

	c, err := u.provider.Initiate(ctx, in.MemberID, in.Email, in.Amount)
	if err != nil {
		return nil, err
	}
	log.Printf("checkout %s opened for member %s (%s)", c.Reference, in.MemberID, u.prec.Format(in.Amount))
	return &CheckoutDTO{Status: "success", Reference: c.Reference, AuthorizationURL: c.RedirectURL}, nil
}

// Verify asks the provider about reference and, on success, posts exactly one
// deposit for it. Repeated calls return the row posted the first time. Only
// the member the checkout was opened for may claim it.
func (u *Usecase) Verify(ctx context.Context, memberID, reference string) (*VerifyResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperr.ValidationFields(map[string]string{"reference": "is required"})
	}

	v, err := u.provider.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if v.Status != payment.StatusSuccess {
		return &VerifyResult{
			Status:    string(payment.StatusPending),
			Message:   fmt.Sprintf("transaction is not completed: %s", v.Status),
			Reference: reference,
		}, nil
	}

	if v.MemberID != memberID {
		return nil, apperr.Conflict(apperr.CodeReferenceTaken, "reference %s belongs to another member", reference)
	}

	if existing, err := u.posted(ctx, memberID, reference); err != nil || existing != nil {
		return existing, err
	}

	ref := reference
	tx := &ledger.Transaction{
		MemberID:  memberID,
		Type:      ledger.TypeDeposit,
		Amount:    v.Amount,
		Date:      loan.DateOf(u.now().UTC()),
		Reference: &ref,
		Notes:     DepositNotes,
	}
	if err := u.ledger.Create(ctx, tx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race to a concurrent verify of the same reference
			existing, perr := u.posted(ctx, memberID, reference)
			if perr != nil || existing != nil {
				return existing, perr
			}
			return nil, apperr.Conflict(apperr.CodeReferenceTaken, "reference %s is already posted", reference).Wrap(err)
		}
		return nil, err
	}
	log.Printf("deposit %s posted for member %s (ref %s)", u.prec.Format(tx.Amount), memberID, reference)
	return u.result(tx, true), nil
}

// posted returns the already recorded deposit for reference, or nil.
func (u *Usecase) posted(ctx context.Context, memberID, reference string) (*VerifyResult, error) {
	tx, err := u.ledger.GetByReference(ctx, reference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tx.MemberID != memberID {
		return nil, apperr.Conflict(apperr.CodeReferenceTaken, "reference %s was posted for another member", reference)
	}
	return u.result(tx, false), nil
}

func (u *Usecase) result(tx *ledger.Transaction, recorded bool) *VerifyResult {
	msg := "transaction verified and recorded successfully"
	if !recorded {
		msg = "transaction already recorded"
	}
	return &VerifyResult{
		Status:        string(payment.StatusSuccess),
		Message:       msg,
		Reference:     *tx.Reference,
		Amount:        u.prec.Format(tx.Amount),
		TransactionID: tx.ID,
		Recorded:      recorded,
	}
}
