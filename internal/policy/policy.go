// Package policy holds the role capability checks shared by the listing,
// review, and report moderation paths.
package policy

import "github.com/minhle-dev/rentroom-backend/internal/models"

// CanModifyUser reports whether an admin with adminRole may mutate an account
// with targetRole. SUPER_ADMIN may modify anyone; ADMIN may not touch other
// ADMIN or SUPER_ADMIN accounts.
func CanModifyUser(adminRole, targetRole string) bool {
	if adminRole == models.RoleSuperAdmin {
		return true
	}
	if adminRole != models.RoleAdmin {
		return false
	}
	return targetRole != models.RoleAdmin && targetRole != models.RoleSuperAdmin
}

// CanAssignRole reports whether an admin with adminRole may grant newRole.
// Only SUPER_ADMIN may hand out the SUPER_ADMIN role.
func CanAssignRole(adminRole, newRole string) bool {
	if newRole == models.RoleSuperAdmin {
		return adminRole == models.RoleSuperAdmin
	}
	return adminRole == models.RoleAdmin || adminRole == models.RoleSuperAdmin
}
