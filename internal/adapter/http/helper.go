package http

import (
	"net/http"
	"strings"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/auth"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

var errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")

// principal returns the caller resolved by the auth middleware.
func principal(c echo.Context) (auth.Principal, error) {
	p, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Principal{}, errUnauthenticated
	}
	return p, nil
}

// targetMember resolves whose data a request is about. Members always get
// themselves; officers and admins may name another member.
func targetMember(p auth.Principal, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == p.MemberID {
		return p.MemberID, nil
	}
	if !p.CanActOnBehalf() {
		return "", apperr.Forbidden("role %s cannot act for another member", p.Role)
	}
	return requested, nil
}

// memberScope resolves the member a read is about from ?member_id=.
func memberScope(c echo.Context) (string, error) {
	p, err := principal(c)
	if err != nil {
		return "", err
	}
	return targetMember(p, c.QueryParam("member_id"))
}

func require(p auth.Principal, allowed bool, action string) error {
	if !allowed {
		return apperr.Forbidden("role %s cannot %s loans", p.Role, action)
	}
	return nil
}
