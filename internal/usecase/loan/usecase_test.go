package loan

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"creditunion-backoffice/internal/adapter/repository/mysql"
	"creditunion-backoffice/internal/domain/apperr"
	domain "creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/domain/uow"
	"creditunion-backoffice/internal/testutil/dbtest"
	"creditunion-backoffice/internal/testutil/loanmock"
	"creditunion-backoffice/internal/testutil/uowmock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	memberID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	loanID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock(y int, m time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(y, m, day, 10, 30, 0, 0, time.UTC) }
}

func validInput() RequestLoanInput {
	return RequestLoanInput{
		MemberID:     memberID,
		Principal:    d("1000.00"),
		InterestRate: d("12"),
		TermMonths:   12,
		Purpose:      "school fees",
	}
}

// sqliteUsecase wires the usecase to real repositories on an in-memory db.
func sqliteUsecase(t *testing.T, opts ...Option) (*Usecase, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewUsecase(mysql.NewLoanRepository(db), mysql.NewGormUoW(db), opts...), db
}

func TestRequest_Success_NoPendingLoan(t *testing.T) {
	var created *domain.Loan
	repo := &loanmock.Repo{
		// Simulate: no pending loan ⇒ repo returns gorm.ErrRecordNotFound
		GetPendingByMemberIDFn: func(context.Context, string) (*domain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(_ context.Context, l *domain.Loan) error {
			l.ID = 7
			created = l
			return nil
		},
	}
	uc := NewUsecase(repo, uowmock.Passthrough(uow.Repos{Loans: repo}), WithClock(fixedClock(2024, time.January, 15)))

	dto, err := uc.Request(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Request err: %v", err)
	}
	if created == nil {
		t.Fatalf("Create not called")
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length: %d", len(dto.LoanID))
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.TotalAmount != "1120.00" {
		t.Fatalf("total=%s, want 1120.00", dto.TotalAmount)
	}
	if dto.Reference != "LN-2024-0007" || dto.RequestDate != "2024-01-15" {
		t.Fatalf("reference=%s request_date=%s", dto.Reference, dto.RequestDate)
	}
	if created.PendingMemberID == nil || *created.PendingMemberID != memberID {
		t.Fatalf("pending guard not set: %+v", created.PendingMemberID)
	}
}

func TestRequest_Rejects_WhenPendingLoanExists(t *testing.T) {
	repo := &loanmock.Repo{
		GetPendingByMemberIDFn: func(_ context.Context, id string) (*domain.Loan, error) {
			return &domain.Loan{LoanID: loanID, MemberID: id, Status: domain.StatusPending}, nil
		},
		// Create() should never be called in this scenario; guard it:
		CreateFn: func(context.Context, *domain.Loan) error {
			t.Fatalf("Create must not be called when pending loan exists")
			return nil
		},
	}
	uc := NewUsecase(repo, uowmock.Passthrough(uow.Repos{Loans: repo}))

	_, err := uc.Request(context.Background(), validInput())
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
	if want := "already has a pending loan"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q does not contain %q", err.Error(), want)
	}
}

func TestRequest_DuplicateKeyIsConflict(t *testing.T) {
	repo := &loanmock.Repo{
		GetPendingByMemberIDFn: func(context.Context, string) (*domain.Loan, error) { return nil, gorm.ErrRecordNotFound },
		CreateFn:               func(context.Context, *domain.Loan) error { return gorm.ErrDuplicatedKey },
	}
	uc := NewUsecase(repo, uowmock.Passthrough(uow.Repos{Loans: repo}))

	_, err := uc.Request(context.Background(), validInput())
	if !errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: apperr.CodePendingLoanExists}) {
		t.Fatalf("want pending conflict, got %v", err)
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("cause not kept: %v", err)
	}
}

func TestRequest_InvalidInput(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &uowmock.UoW{})
	_, err := uc.Request(context.Background(), RequestLoanInput{
		MemberID: "short", Principal: d("0"), InterestRate: d("-1"), TermMonths: 0,
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
	for _, f := range []string{"member_id", "principal", "interest_rate", "term"} {
		if _, ok := ae.Fields[f]; !ok {
			t.Errorf("missing field error for %s: %v", f, ae.Fields)
		}
	}

	in := validInput()
	in.Principal = d("100.005")
	if _, err := uc.Request(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("three decimal places: want validation error, got %v", err)
	}
}

func TestRequest_NoUnitOfWork(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, nil)
	if _, err := uc.Request(context.Background(), validInput()); !errors.Is(err, errNoUoW) {
		t.Fatalf("want errNoUoW, got %v", err)
	}
	if _, err := uc.Approve(context.Background(), loanID); !errors.Is(err, errNoUoW) {
		t.Fatalf("want errNoUoW, got %v", err)
	}
}

func TestRequest_Twice_OnlyOnePending(t *testing.T) {
	uc, db := sqliteUsecase(t)
	ctx := context.Background()

	if _, err := uc.Request(ctx, validInput()); err != nil {
		t.Fatalf("first Request: %v", err)
	}
	if _, err := uc.Request(ctx, validInput()); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second Request: want conflict, got %v", err)
	}

	var n int64
	db.Table("loans").Where("member_id = ? AND status = ?", memberID, domain.StatusPending).Count(&n)
	if n != 1 {
		t.Fatalf("pending loans = %d, want 1", n)
	}
}

func TestRequest_Concurrent_OnlyOneSucceeds(t *testing.T) {
	uc, db := sqliteUsecase(t)
	ctx := context.Background()

	const workers = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Request(ctx, validInput())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != workers-1 {
		t.Fatalf("ok=%d conflicts=%d", ok, conflicts)
	}
	var n int64
	db.Table("loans").Where("member_id = ?", memberID).Count(&n)
	if n != 1 {
		t.Fatalf("loans = %d, want 1", n)
	}
}

func TestApprove_SetsDisbursementAndDueDate(t *testing.T) {
	uc, _ := sqliteUsecase(t, WithClock(fixedClock(2024, time.January, 15)))
	ctx := context.Background()

	in := validInput()
	in.TermMonths = 6
	req, err := uc.Request(ctx, in)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	dto, err := uc.Approve(ctx, req.LoanID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dto.Status != string(domain.StatusActive) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.DisbursedDate == nil || *dto.DisbursedDate != "2024-01-15" {
		t.Fatalf("disbursed=%v", dto.DisbursedDate)
	}
	if dto.DueDate == nil || *dto.DueDate != "2024-07-15" {
		t.Fatalf("due=%v", dto.DueDate)
	}

	active, err := uc.Active(ctx, memberID)
	if err != nil || active.LoanID != req.LoanID {
		t.Fatalf("Active: %+v, %v", active, err)
	}
	if _, err := uc.Pending(ctx, memberID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Pending after approve: want not found, got %v", err)
	}
}

func TestApprove_SecondActiveLoanIsConflict(t *testing.T) {
	uc, _ := sqliteUsecase(t)
	ctx := context.Background()

	first, _ := uc.Request(ctx, validInput())
	if _, err := uc.Approve(ctx, first.LoanID); err != nil {
		t.Fatalf("Approve first: %v", err)
	}
	second, err := uc.Request(ctx, validInput())
	if err != nil {
		t.Fatalf("Request second: %v", err)
	}
	_, err = uc.Approve(ctx, second.LoanID)
	if !errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: apperr.CodeActiveLoanExists}) {
		t.Fatalf("want active-loan conflict, got %v", err)
	}

	// the failed approval rolled back: the second loan is still pending
	got, err := uc.Get(ctx, second.LoanID)
	if err != nil || got.Status != string(domain.StatusPending) {
		t.Fatalf("second loan after failed approve: %+v, %v", got, err)
	}
}

func TestTransitions_InvalidState(t *testing.T) {
	uc, _ := sqliteUsecase(t)
	ctx := context.Background()

	req, _ := uc.Request(ctx, validInput())
	if _, err := uc.Reject(ctx, req.LoanID); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	for name, op := range map[string]func(context.Context, string) (*LoanDTO, error){
		"approve": uc.Approve,
		"reject":  uc.Reject,
		"cancel":  uc.Cancel,
	} {
		_, err := op(ctx, req.LoanID)
		if !errors.Is(err, apperr.ErrInvalidState) {
			t.Errorf("%s rejected loan: want invalid state, got %v", name, err)
		}
	}

	got, _ := uc.Get(ctx, req.LoanID)
	if got.Status != string(domain.StatusRejected) {
		t.Fatalf("status changed to %s", got.Status)
	}
}

func TestCancel_PendingAndActive(t *testing.T) {
	uc, _ := sqliteUsecase(t)
	ctx := context.Background()

	pending, _ := uc.Request(ctx, validInput())
	if dto, err := uc.Cancel(ctx, pending.LoanID); err != nil || dto.Status != string(domain.StatusCancelled) {
		t.Fatalf("Cancel pending: %+v, %v", dto, err)
	}

	// the guard is released, so a new request is allowed
	next, err := uc.Request(ctx, validInput())
	if err != nil {
		t.Fatalf("Request after cancel: %v", err)
	}
	if _, err := uc.Approve(ctx, next.LoanID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dto, err := uc.Cancel(ctx, next.LoanID); err != nil || dto.Status != string(domain.StatusCancelled) {
		t.Fatalf("Cancel active: %+v, %v", dto, err)
	}

	hist, err := uc.History(ctx, memberID)
	if err != nil || len(hist) != 2 {
		t.Fatalf("History: %d loans, %v", len(hist), err)
	}
}

func TestTransition_NotFound(t *testing.T) {
	uc, _ := sqliteUsecase(t)
	_, err := uc.Approve(context.Background(), "cccccccccccccccccccccccccccccccc")
	if !errors.Is(err, &apperr.Error{Kind: apperr.KindNotFound, Code: apperr.CodeLoanNotFound}) {
		t.Fatalf("want loan not found, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	uc := NewUsecase(&loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, id string) (*domain.Loan, error) {
			return &domain.Loan{
				ID: 12, LoanID: id, MemberID: memberID,
				Principal: d("500"), InterestRate: d("10"), TotalAmount: d("541.67"), Term: 10,
				Status: domain.StatusPending, CreatedAt: created,
			}, nil
		},
	}, nil)
	dto, err := uc.Get(context.Background(), loanID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if dto.LoanID != loanID || dto.Principal != "500.00" || dto.InterestRate != "10.00" {
		t.Fatalf("got %+v", dto)
	}
	if dto.Reference != "LN-2024-0012" || dto.DisbursedDate != nil {
		t.Fatalf("got %+v", dto)
	}
}

func TestQueries_MapNotFound(t *testing.T) {
	notFound := func(context.Context, string) (*domain.Loan, error) { return nil, gorm.ErrRecordNotFound }
	uc := NewUsecase(&loanmock.Repo{
		GetByLoanIDFn:          notFound,
		GetActiveByMemberIDFn:  notFound,
		GetPendingByMemberIDFn: notFound,
	}, nil)
	ctx := context.Background()

	if _, err := uc.Get(ctx, loanID); !errors.Is(err, &apperr.Error{Kind: apperr.KindNotFound, Code: apperr.CodeLoanNotFound}) {
		t.Errorf("Get: %v", err)
	}
	if _, err := uc.Active(ctx, memberID); !errors.Is(err, &apperr.Error{Kind: apperr.KindNotFound, Code: apperr.CodeNoActiveLoan}) {
		t.Errorf("Active: %v", err)
	}
	if _, err := uc.Pending(ctx, memberID); !errors.Is(err, &apperr.Error{Kind: apperr.KindNotFound, Code: apperr.CodeNoPendingLoan}) {
		t.Errorf("Pending: %v", err)
	}
}

func TestListOpen_UsesOpenStatuses(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		ListByStatusFn: func(_ context.Context, statuses ...domain.Status) ([]domain.Loan, error) {
			if len(statuses) != 3 {
				t.Fatalf("statuses=%v", statuses)
			}
			return []domain.Loan{{LoanID: "x", Status: domain.StatusActive}, {LoanID: "y", Status: domain.StatusRejected}}, nil
		},
	}, nil)
	out, err := uc.ListOpen(context.Background())
	if err != nil || len(out) != 2 {
		t.Fatalf("ListOpen: %v, %v", out, err)
	}
}

func TestListAll_EveryStatusNewestFirst(t *testing.T) {
	uc, _ := sqliteUsecase(t)
	ctx := context.Background()

	first, _ := uc.Request(ctx, validInput())
	if _, err := uc.Reject(ctx, first.LoanID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	second, err := uc.Request(ctx, validInput())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	all, err := uc.ListAll(ctx, memberID)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll: %d loans, %v", len(all), err)
	}
	if all[0].LoanID != second.LoanID || all[0].Status != string(domain.StatusPending) || all[1].Status != string(domain.StatusRejected) {
		t.Fatalf("unexpected: %s %s, %s %s", all[0].LoanID, all[0].Status, all[1].LoanID, all[1].Status)
	}

	none, err := uc.ListAll(ctx, "cccccccccccccccccccccccccccccccc")
	if err != nil || len(none) != 0 {
		t.Fatalf("other member: %v, %v", none, err)
	}
}
