package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creditunion-backoffice/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func TestIssueAndParseToken(t *testing.T) {
	tok, err := IssueToken(testSecret, memberID, auth.RoleOfficer, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := ParseToken(testSecret, tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if p.MemberID != memberID || p.Role != auth.RoleOfficer {
		t.Fatalf("principal: %+v", p)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	sign := func(method jwt.SigningMethod, key any, c Claims) string {
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := func() Claims {
		return Claims{Role: "member", RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	badRole := valid()
	badRole.Role = "superuser"
	badSub := valid()
	badSub.Subject = "alice"
	badIss := valid()
	badIss.Issuer = "someone-else"

	cases := map[string]string{
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), valid()),
		"wrong alg":    sign(jwt.SigningMethodHS512, testSecret, valid()),
		"expired":      sign(jwt.SigningMethodHS256, testSecret, expired),
		"unknown role": sign(jwt.SigningMethodHS256, testSecret, badRole),
		"bad subject":  sign(jwt.SigningMethodHS256, testSecret, badSub),
		"bad issuer":   sign(jwt.SigningMethodHS256, testSecret, badIss),
		"garbage":      "not.a.token",
	}
	for name, tok := range cases {
		if _, err := ParseToken(testSecret, tok); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	e := echo.New()
	var seen auth.Principal
	e.GET("/me", func(c echo.Context) error {
		p, ok := auth.FromContext(c.Request().Context())
		if !ok {
			t.Fatalf("principal missing from context")
		}
		seen = p
		return c.NoContent(http.StatusNoContent)
	}, AuthMiddleware(testSecret))

	do := func(authz string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if authz != "" {
			req.Header.Set(echo.HeaderAuthorization, authz)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(""); code != http.StatusUnauthorized {
		t.Fatalf("no token => want 401, got %d", code)
	}
	if code := do("Basic abc"); code != http.StatusUnauthorized {
		t.Fatalf("basic auth => want 401, got %d", code)
	}
	if code := do("Bearer nope"); code != http.StatusUnauthorized {
		t.Fatalf("bad token => want 401, got %d", code)
	}
	if code := do(bearerFor(t, memberID)); code != http.StatusNoContent {
		t.Fatalf("valid token => want 204, got %d", code)
	}
	if seen.MemberID != memberID || seen.Role != auth.RoleMember {
		t.Fatalf("principal: %+v", seen)
	}
}
