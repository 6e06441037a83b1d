// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Editor Roles

// UserRole represents the authorization level granted to an editor account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can revert revisions and manage other editors
	RoleModerator UserRole = "moderator"

	// Can submit new revisions
	RoleEditor UserRole = "editor"

	// Authenticated but read-only (e.g. suspended or unconfirmed accounts)
	RoleReader UserRole = "reader"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleModerator:
		return 30
	case RoleEditor:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}
