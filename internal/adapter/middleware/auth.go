package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"creditunion-backoffice/internal/domain/auth"
	"creditunion-backoffice/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenIssuer = "creditunion-backoffice"

// Claims: sub carries the member id, role the back-office role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for memberID. Used by tooling and tests;
// the login flow itself lives outside this service.
func IssueToken(secret []byte, memberID string, role auth.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   memberID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies tok and resolves the principal it names.
func ParseToken(secret []byte, tok string) (auth.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return auth.Principal{}, err
	}

	p := auth.Principal{MemberID: claims.Subject, Role: auth.Role(claims.Role)}
	if !id.IsID32(p.MemberID) {
		return auth.Principal{}, errors.New("subject must be a 32-char member id")
	}
	if !p.Role.Valid() {
		return auth.Principal{}, fmt.Errorf("unknown role %q", claims.Role)
	}
	return p, nil
}

func bearer(req *http.Request) string {
	h := req.Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware resolves the caller once per request and stores the
// principal in the request context.
func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := bearer(c.Request())
			if tok == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			p, err := ParseToken(secret, tok)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}
