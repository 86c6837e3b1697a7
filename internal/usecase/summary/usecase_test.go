package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/testutil/loanmock"
	"creditunion-backoffice/internal/testutil/repaymentmock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const memberID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func loanOn(id uint64, created time.Time, status loan.Status) loan.Loan {
	l := loan.Loan{
		ID:           id,
		LoanID:       "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" + string(rune('0'+id)),
		MemberID:     memberID,
		Principal:    d("1000"),
		InterestRate: d("12"),
		Term:         12,
		TotalAmount:  d("1120.00"),
		CreatedAt:    created,
	}
	l.Activate(created)
	if status != loan.StatusActive {
		l.SetStatus(status)
	}
	return l
}

func TestActiveLoanSummary_Projection(t *testing.T) {
	created := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	l := loanOn(7, created, loan.StatusActive)

	uc := NewUsecase(
		&loanmock.Repo{GetActiveByMemberIDFn: func(context.Context, string) (*loan.Loan, error) { return &l, nil }},
		&repaymentmock.Repo{SumByLoanIDFn: func(_ context.Context, id uint64) (decimal.Decimal, error) {
			if id != 7 {
				t.Fatalf("summed wrong loan %d", id)
			}
			return d("93.33"), nil
		}},
	)

	got, err := uc.ActiveLoanSummary(context.Background(), memberID)
	if err != nil {
		t.Fatalf("ActiveLoanSummary: %v", err)
	}
	if got.Reference != "LN-2024-0007" || got.TotalAmount != "1120.00" || got.MonthlyAmount != "93.33" {
		t.Fatalf("unexpected header: %+v", got)
	}
	if got.PaidInstallments != 1 || got.TotalRepayments != "93.33" || got.BalanceRemaining != "1026.67" {
		t.Fatalf("paid: %+v", got)
	}
	if got.DisbursedDate != "2024-01-15" || got.DueDate != "2025-01-15" {
		t.Fatalf("dates: disbursed=%s due=%s", got.DisbursedDate, got.DueDate)
	}
	want := NextPaymentDTO{Number: 2, Date: "2024-03-15", Amount: "93.33"}
	if got.NextPayment == nil || *got.NextPayment != want {
		t.Fatalf("next payment: got %+v, want %+v", got.NextPayment, want)
	}
}

func TestActiveLoanSummary_FullyScheduledHasNoNextPayment(t *testing.T) {
	l := loanOn(3, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), loan.StatusActive)
	uc := NewUsecase(
		&loanmock.Repo{GetActiveByMemberIDFn: func(context.Context, string) (*loan.Loan, error) { return &l, nil }},
		&repaymentmock.Repo{SumByLoanIDFn: func(context.Context, uint64) (decimal.Decimal, error) { return d("1119.96"), nil }},
	)
	got, err := uc.ActiveLoanSummary(context.Background(), memberID)
	if err != nil {
		t.Fatalf("ActiveLoanSummary: %v", err)
	}
	if got.PaidInstallments != 12 || got.NextPayment != nil {
		t.Fatalf("want 12 paid and no next payment, got %+v", got)
	}
	if got.BalanceRemaining != "0.04" {
		t.Fatalf("balance remaining = %s, want 0.04", got.BalanceRemaining)
	}
}

func TestActiveLoanSummary_OverpaidBalanceIsZero(t *testing.T) {
	l := loanOn(4, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), loan.StatusActive)
	uc := NewUsecase(
		&loanmock.Repo{GetActiveByMemberIDFn: func(context.Context, string) (*loan.Loan, error) { return &l, nil }},
		&repaymentmock.Repo{SumByLoanIDFn: func(context.Context, uint64) (decimal.Decimal, error) { return d("1500.50"), nil }},
	)
	got, err := uc.ActiveLoanSummary(context.Background(), memberID)
	if err != nil {
		t.Fatalf("ActiveLoanSummary: %v", err)
	}
	if got.BalanceRemaining != "0.00" || got.TotalRepayments != "1500.50" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestActiveLoanSummary_NoActiveLoan(t *testing.T) {
	uc := NewUsecase(
		&loanmock.Repo{GetActiveByMemberIDFn: func(context.Context, string) (*loan.Loan, error) { return nil, gorm.ErrRecordNotFound }},
		&repaymentmock.Repo{},
	)
	got, err := uc.ActiveLoanSummary(context.Background(), memberID)
	if err != nil || got != nil {
		t.Fatalf("want nil, nil; got %+v, %v", got, err)
	}
}

func TestLoanHistory(t *testing.T) {
	newer := loanOn(12, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), loan.StatusActive)
	older := loanOn(5, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), loan.StatusCompleted)

	uc := NewUsecase(
		&loanmock.Repo{ListByMemberIDFn: func(_ context.Context, _ string, statuses ...loan.Status) ([]loan.Loan, error) {
			if len(statuses) != 2 || statuses[0] != loan.StatusActive || statuses[1] != loan.StatusCompleted {
				t.Fatalf("statuses=%v", statuses)
			}
			return []loan.Loan{newer, older}, nil
		}},
		&repaymentmock.Repo{SumByLoanIDsFn: func(_ context.Context, ids []uint64) (map[uint64]decimal.Decimal, error) {
			if len(ids) != 2 {
				t.Fatalf("ids=%v", ids)
			}
			// no repayments on the newer loan yet
			return map[uint64]decimal.Decimal{5: d("1120")}, nil
		}},
	)

	got, err := uc.LoanHistory(context.Background(), memberID)
	if err != nil {
		t.Fatalf("LoanHistory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	want := []HistoryItemDTO{
		{Reference: "LN-2024-0012", LoanID: newer.LoanID, Principal: "1000.00", InterestPaid: "-1000.00", TotalPayment: "0.00", Status: "active", DateClosed: "2025-06-01"},
		{Reference: "LN-2023-0005", LoanID: older.LoanID, Principal: "1000.00", InterestPaid: "120.00", TotalPayment: "1120.00", Status: "completed", DateClosed: "2024-02-01"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestSummary_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(
		&loanmock.Repo{GetActiveByMemberIDFn: func(context.Context, string) (*loan.Loan, error) { return nil, boom }},
		&repaymentmock.Repo{},
	)
	if _, err := uc.Summary(context.Background(), memberID); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

func TestSummary_Combines(t *testing.T) {
	uc := NewUsecase(
		&loanmock.Repo{
			GetActiveByMemberIDFn: func(context.Context, string) (*loan.Loan, error) { return nil, gorm.ErrRecordNotFound },
			ListByMemberIDFn: func(context.Context, string, ...loan.Status) ([]loan.Loan, error) {
				return nil, nil
			},
		},
		&repaymentmock.Repo{SumByLoanIDsFn: func(context.Context, []uint64) (map[uint64]decimal.Decimal, error) {
			return map[uint64]decimal.Decimal{}, nil
		}},
	)
	got, err := uc.Summary(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.ActiveLoan != nil || got.LoanHistory == nil || len(got.LoanHistory) != 0 {
		t.Fatalf("unexpected: %+v", got)
	}
}
