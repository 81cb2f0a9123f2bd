package identity

import (
	"slices"
	"strings"
)

// RoutePermission restricts a route prefix to a set of roles
type RoutePermission struct {
	Prefix string
	Roles  []Role
}

// Allows reports whether role r may visit routes under this prefix
func (rp RoutePermission) Allows(r Role) bool {
	return slices.Contains(rp.Roles, r)
}

// RoutePermissions is an ordered table of route restrictions.
// Lookup picks the longest matching prefix; entries of equal length keep
// declaration order. Routes without a matching entry are unrestricted.
type RoutePermissions []RoutePermission

// DefaultRoutePermissions is the dashboard's route table
var DefaultRoutePermissions = RoutePermissions{
	{Prefix: "/home", Roles: []Role{RoleFinance, RoleStaff}},
	{Prefix: "/settings", Roles: []Role{RoleFinance, RoleStaff}},
	{Prefix: "/users", Roles: []Role{RoleFinance}},
}

// Lookup finds the entry governing path
func (t RoutePermissions) Lookup(path string) (RoutePermission, bool) {
	var (
		best  RoutePermission
		found bool
	)
	for _, rp := range t {
		if !strings.HasPrefix(path, rp.Prefix) {
			continue
		}
		if !found || len(rp.Prefix) > len(best.Prefix) {
			best = rp
			found = true
		}
	}
	return best, found
}

// Allows reports whether role r may visit path
func (t RoutePermissions) Allows(r Role, path string) bool {
	if !r.IsValid() {
		return false
	}
	rp, ok := t.Lookup(path)
	if !ok {
		return true
	}
	return rp.Allows(r)
}
