package auth

import "github.com/dmitrijs2005/userdir/internal/server/models"

// Authorization decision functions. Each is a total, side-effect-free
// predicate over the caller's identity; a nil identity is the anonymous
// caller. Malformed roles never reach these functions: ExtractClaims rejects
// them first.

// CanCreateUser reports whether the caller may create user records at all.
// Anonymous creation is allowed: it is the self-registration path. Guests are
// the only authenticated role that may not create.
func CanCreateUser(id *IdentityClaims) bool {
	if id == nil {
		return true
	}
	return id.Role != models.RoleGuest
}

// CanCreateUsername reports whether the caller may create a record with the
// given username. An authenticated user-role caller may only register their
// own username; this blocks impersonating another handle while logged in.
// Anonymous registration carries no such restriction.
func CanCreateUsername(id *IdentityClaims, targetUsername string) bool {
	if id == nil {
		return true
	}
	if id.Role == models.RoleUser {
		return id.Username == targetUsername
	}
	return id.Role == models.RoleSuperUser || id.Role == models.RoleGlobalAdmin
}

// CanReadUser reports whether the caller may read a single record.
// Every authenticated identity may read any record.
func CanReadUser(id *IdentityClaims, targetUserID string) bool {
	return id != nil
}

// CanListUsers reports whether the caller may list records.
func CanListUsers(id *IdentityClaims) bool {
	return id != nil
}

// CanDeleteUser reports whether the caller may delete the record that
// currently holds targetUsername. The target's username, not its id, drives
// the decision, so callers must resolve the record first.
func CanDeleteUser(id *IdentityClaims, targetUsername string) bool {
	if id == nil {
		return false
	}
	if id.Role == models.RoleGlobalAdmin {
		return true
	}
	if id.Role == models.RoleSuperUser {
		return id.Username == targetUsername
	}
	return false
}

// CanUploadFile reports whether the caller may upload files. Every
// authenticated identity except guests may upload.
func CanUploadFile(id *IdentityClaims) bool {
	if id == nil {
		return false
	}
	return id.Role != models.RoleGuest
}
