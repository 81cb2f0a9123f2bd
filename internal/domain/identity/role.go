package identity

import (
	"strings"

	"github.com/findash/backend/internal/domain/shared"
)

// Role is a principal's position in the access hierarchy
type Role string

const (
	RoleStaff   Role = "STAFF"
	RoleFinance Role = "FINANCE"
)

// DefaultRole is the role assumed for directory records that carry none
const DefaultRole = RoleStaff

// roleHierarchy ranks roles; a greater rank includes the powers of a lesser one
var roleHierarchy = map[Role]int{
	RoleStaff:   1,
	RoleFinance: 2,
}

// Roles returns every assignable role in ascending rank
func Roles() []Role {
	return []Role{RoleStaff, RoleFinance}
}

// ParseRole normalizes a raw role string. The boolean is false when the value
// is not one of the closed set.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", false
	}
	return r, true
}

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Rank returns the hierarchy level, 0 for unknown roles
func (r Role) Rank() int {
	return roleHierarchy[r]
}

// AtLeast reports whether r ranks at or above other
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && r.Rank() >= other.Rank()
}

// IsTop reports whether r is the highest role in the hierarchy
func (r Role) IsTop() bool {
	if !r.IsValid() {
		return false
	}
	for _, rank := range roleHierarchy {
		if rank > r.Rank() {
			return false
		}
	}
	return true
}

// Errors raised by role management
var (
	ErrInvalidRole      = shared.NewDomainError("INVALID_INPUT", "Invalid role")
	ErrRoleChangeDenied = shared.NewDomainError("FORBIDDEN", "Only FINANCE users can update roles")
	ErrMissingPrincipal = shared.NewDomainError("UNAUTHORIZED", "Unauthorized")
	ErrInsufficientRole = shared.NewDomainError("FORBIDDEN", "Your role does not allow this action")
)
