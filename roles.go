package blog

import "github.com/google/uuid"

// UserRole is the user's role. The set is closed: anything outside it
// is rejected at registration, at token decode, and at the gate.
type UserRole string

const (
	// RoleUser is the default role, limited to owned resources
	RoleUser UserRole = "user"
	// RoleAdmin can act on any resource
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin checks if the role grants unrestricted resource access
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// IsOwnerOrAdmin is the single ownership predicate: admins pass for any
// resource, everyone else only for resources whose owner id matches the
// verified caller.
func IsOwnerOrAdmin(claims AuthClaims, ownerID uuid.UUID) bool {
	if claims == nil {
		return false
	}
	if claims.IsAdmin() {
		return true
	}
	return claims.UserID() == ownerID.String()
}
