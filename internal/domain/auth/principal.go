// Package auth models the caller identity handed to the usecases by the
// authorization collaborator. The role is resolved once per request.
package auth

import "context"

type Role string

const (
	RoleMember  Role = "member"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

type Principal struct {
	MemberID string
	Role     Role
}

// CanActOnBehalf allows requesting loans and recording repayments for
// another member.
func (p Principal) CanActOnBehalf() bool { return p.Role == RoleOfficer || p.Role == RoleAdmin }

func (p Principal) CanApprove() bool { return p.Role == RoleOfficer || p.Role == RoleAdmin }
func (p Principal) CanReject() bool  { return p.Role == RoleAdmin }
func (p Principal) CanCancel() bool  { return p.Role == RoleAdmin }

// CanSeeAll allows reading other members' loans.
func (p Principal) CanSeeAll() bool { return p.CanActOnBehalf() }

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
