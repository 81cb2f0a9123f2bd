package identity

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the caller resolved from a signed identity assertion.
// Role is empty when the assertion carries no resolvable role.
type Principal struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  Role
}

// HasRole reports whether the principal carries a known role
func (p *Principal) HasRole() bool {
	return p != nil && p.Role.IsValid()
}

// Is reports whether the principal holds exactly role r
func (p *Principal) Is(r Role) bool {
	return p.HasRole() && p.Role == r
}

// CanManageRoles reports whether the principal may change other principals' roles
func (p *Principal) CanManageRoles() bool {
	return p.HasRole() && p.Role.IsTop()
}

type principalKey struct{}

// WithPrincipal attaches the resolved principal to ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal attached to ctx, or nil
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
