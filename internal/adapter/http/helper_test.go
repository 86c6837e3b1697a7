package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"creditunion-backoffice/internal/domain/auth"

	"github.com/labstack/echo/v4"
)

const (
	memberA = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	memberB = "cccccccccccccccccccccccccccccccc"
	officer = "dddddddddddddddddddddddddddddddd"
	loanID  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// call sends a request as p; a zero principal sends it unauthenticated.
func call(e *echo.Echo, p auth.Principal, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if p.MemberID != "" {
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func as(role auth.Role, member string) auth.Principal {
	return auth.Principal{MemberID: member, Role: role}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("error body is not JSON: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("want %d, got %d; body=%s", want, rec.Code, rec.Body.String())
	}
}

func bytesReader(s string) io.Reader { return strings.NewReader(s) }
