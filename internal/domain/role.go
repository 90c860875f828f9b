package domain

// Role is the closed set of account ranks. The hierarchy is a total order:
// player < moderator < admin < superadmin.
type Role string

const (
	RolePlayer     Role = "player"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// AllRoles returns the valid roles in ascending rank order.
func AllRoles() []Role {
	return []Role{RolePlayer, RoleModerator, RoleAdmin, RoleSuperadmin}
}

// ParseRole maps a stored string to a Role. Unknown values collapse to
// player, the lowest privilege.
func ParseRole(s string) Role {
	switch Role(s) {
	case RolePlayer, RoleModerator, RoleAdmin, RoleSuperadmin:
		return Role(s)
	default:
		return RolePlayer
	}
}

// Valid reports whether r is one of the four defined ranks.
func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleModerator, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// Rank returns the numeric position in the hierarchy. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleModerator:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperadmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r grants an operation requiring min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

func (r Role) String() string { return string(r) }
