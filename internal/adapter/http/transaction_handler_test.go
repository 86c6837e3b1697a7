package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/auth"
	ldomain "creditunion-backoffice/internal/domain/ledger"
	"creditunion-backoffice/internal/testutil/ledgermock"
	"creditunion-backoffice/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ledgerFixture keeps posted rows in memory.
type ledgerFixture struct{ rows []ldomain.Transaction }

func (f *ledgerFixture) router() *echo.Echo {
	repo := &ledgermock.Repo{
		CreateFn: func(_ context.Context, tx *ldomain.Transaction) error {
			tx.ID = uint64(len(f.rows) + 1)
			f.rows = append(f.rows, *tx)
			return nil
		},
		GetByIDFn: func(_ context.Context, id uint64) (*ldomain.Transaction, error) {
			for i := range f.rows {
				if f.rows[i].ID == id {
					return &f.rows[i], nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
		ListByMemberFn: func(_ context.Context, m string) ([]ldomain.Transaction, error) {
			var out []ldomain.Transaction
			for _, tx := range f.rows {
				if tx.MemberID == m {
					out = append(out, tx)
				}
			}
			return out, nil
		},
	}
	clock := func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }
	h := NewTransactionHandler(ledger.NewUsecase(repo, ledger.WithClock(clock)))

	e := newEchoWithValidator()
	e.POST("/api/transactions", h.RecordTransaction)
	e.GET("/api/transactions", h.ListTransactions)
	e.GET("/api/transactions/:id", h.GetTransaction)
	return e
}

func TestRecordTransaction_OfficerForMember(t *testing.T) {
	f := &ledgerFixture{}
	e := f.router()

	rec := call(e, as(auth.RoleOfficer, officer), http.MethodPost, "/api/transactions", mustJSON(t, map[string]any{
		"member_id": memberA, "transaction_type": "deposit", "amount": "250.5", "date": "2024-06-28", "reference": "slip-19", "notes": "branch deposit",
	}))
	expectStatus(t, rec, http.StatusCreated)

	var dto ledger.EntryDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.MemberID != memberA || dto.Type != "deposit" || dto.Amount != "250.50" || dto.Date != "2024-06-28" {
		t.Fatalf("unexpected: %+v", dto)
	}
	if dto.AccountOfficerID == nil || *dto.AccountOfficerID != officer {
		t.Fatalf("account officer = %v", dto.AccountOfficerID)
	}
	if len(f.rows) != 1 || f.rows[0].Reference == nil || *f.rows[0].Reference != "slip-19" {
		t.Fatalf("stored rows: %+v", f.rows)
	}
}

func TestRecordTransaction_MemberSelfDefaultsToday(t *testing.T) {
	f := &ledgerFixture{}
	e := f.router()

	rec := call(e, as(auth.RoleMember, memberA), http.MethodPost, "/api/transactions", mustJSON(t, map[string]any{
		"transaction_type": "withdrawal", "amount": 20,
	}))
	expectStatus(t, rec, http.StatusCreated)
	var dto ledger.EntryDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &dto)
	if dto.MemberID != memberA || dto.Date != "2024-07-01" || dto.AccountOfficerID == nil || *dto.AccountOfficerID != memberA {
		t.Fatalf("unexpected: %+v", dto)
	}
}

func TestRecordTransaction_Rejections(t *testing.T) {
	f := &ledgerFixture{}
	e := f.router()

	tests := []struct {
		name string
		p    auth.Principal
		body any
		want int
	}{
		{"member for another", as(auth.RoleMember, memberB), map[string]any{"member_id": memberA, "transaction_type": "deposit", "amount": 5}, http.StatusForbidden},
		{"unknown type", as(auth.RoleOfficer, officer), map[string]any{"member_id": memberA, "transaction_type": "gift", "amount": 5}, http.StatusUnprocessableEntity},
		{"missing type", as(auth.RoleOfficer, officer), map[string]any{"member_id": memberA, "amount": 5}, http.StatusUnprocessableEntity},
		{"zero amount", as(auth.RoleOfficer, officer), map[string]any{"member_id": memberA, "transaction_type": "deposit", "amount": 0}, http.StatusUnprocessableEntity},
		{"bad date", as(auth.RoleOfficer, officer), map[string]any{"member_id": memberA, "transaction_type": "deposit", "amount": 5, "date": "28/06/2024"}, http.StatusUnprocessableEntity},
		{"bad member id", as(auth.RoleOfficer, officer), map[string]any{"member_id": "xyz", "transaction_type": "deposit", "amount": 5}, http.StatusUnprocessableEntity},
		{"unauthenticated", auth.Principal{}, map[string]any{"transaction_type": "deposit", "amount": 5}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		rec := call(e, tt.p, http.MethodPost, "/api/transactions", mustJSON(t, tt.body))
		if rec.Code != tt.want {
			t.Errorf("%s: want %d, got %d (%s)", tt.name, tt.want, rec.Code, rec.Body.String())
		}
	}
	if len(f.rows) != 0 {
		t.Fatalf("rejected requests must not post, got %d rows", len(f.rows))
	}

	rec := call(e, as(auth.RoleOfficer, officer), http.MethodPost, "/api/transactions", mustJSON(t, map[string]any{
		"member_id": memberA, "transaction_type": "bonus", "amount": 5,
	}))
	if er := decodeError(t, rec); !containsFieldMsg(er.Details, "transaction_type", "must be one of") {
		t.Fatalf("details: %+v", er.Details)
	}
}

func TestTransactions_ListAndGetScoped(t *testing.T) {
	f := &ledgerFixture{}
	e := f.router()
	for _, m := range []string{memberA, memberA, memberB} {
		rec := call(e, as(auth.RoleOfficer, officer), http.MethodPost, "/api/transactions", mustJSON(t, map[string]any{
			"member_id": m, "transaction_type": "deposit", "amount": 10,
		}))
		expectStatus(t, rec, http.StatusCreated)
	}

	rec := call(e, as(auth.RoleMember, memberA), http.MethodGet, "/api/transactions", nil)
	expectStatus(t, rec, http.StatusOK)
	var out []ledger.EntryDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || len(out) != 2 {
		t.Fatalf("list: %v, %s", err, rec.Body.String())
	}

	expectStatus(t, call(e, as(auth.RoleMember, memberA), http.MethodGet, "/api/transactions?member_id="+memberB, nil), http.StatusForbidden)
	rec = call(e, as(auth.RoleAdmin, officer), http.MethodGet, "/api/transactions?member_id="+memberB, nil)
	expectStatus(t, rec, http.StatusOK)
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || len(out) != 1 {
		t.Fatalf("admin list: %v, %s", err, rec.Body.String())
	}

	otherID := strconv.FormatUint(f.rows[2].ID, 10)
	expectStatus(t, call(e, as(auth.RoleMember, memberB), http.MethodGet, "/api/transactions/"+otherID, nil), http.StatusOK)
	expectStatus(t, call(e, as(auth.RoleOfficer, officer), http.MethodGet, "/api/transactions/"+otherID, nil), http.StatusOK)

	rec = call(e, as(auth.RoleMember, memberA), http.MethodGet, "/api/transactions/"+otherID, nil)
	expectStatus(t, rec, http.StatusNotFound)
	if er := decodeError(t, rec); er.Code != string(apperr.CodeTransactionNotFound) {
		t.Fatalf("code = %q", er.Code)
	}

	rec = call(e, as(auth.RoleAdmin, officer), http.MethodGet, "/api/transactions/999", nil)
	expectStatus(t, rec, http.StatusNotFound)
	if er := decodeError(t, rec); er.Code != string(apperr.CodeTransactionNotFound) {
		t.Fatalf("code = %q", er.Code)
	}

	expectStatus(t, call(e, as(auth.RoleAdmin, officer), http.MethodGet, "/api/transactions/abc", nil), http.StatusBadRequest)
}
