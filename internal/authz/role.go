package authz

import "strings"

// Role is the fixed user category governing default capabilities.
type Role string

// Known roles.
const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleLecturer    Role = "lecturer"
	RoleClassRep    Role = "class_rep"
)

// ParseRole normalises a stored role value. Unknown values map to the empty
// Role, which holds no permissions.
func ParseRole(raw string) Role {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleCoordinator:
		return RoleCoordinator
	case RoleLecturer:
		return RoleLecturer
	case RoleClassRep:
		return RoleClassRep
	default:
		return ""
	}
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleLecturer, RoleClassRep:
		return true
	}
	return false
}
