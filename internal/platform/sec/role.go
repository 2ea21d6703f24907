// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Manages projects, assigns and closes issues
	RoleManager Role = "manager"

	// Default role for registered users
	RoleDeveloper Role = "developer"
)

// Roles lists every valid role, lowest first.
var Roles = []Role{RoleDeveloper, RoleManager, RoleAdmin}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleManager:
		return 20
	case RoleDeveloper:
		return 10
	default:
		return 0
	}
}

// # Principal

// Principal is the authenticated identity making a request.
//
// It is derived from a verified access token and never persisted.
type Principal struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
