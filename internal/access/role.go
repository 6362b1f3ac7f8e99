package access

import "strings"

// Role is the coarse user category that drives module access and revenue visibility.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleAdmin         Role = "admin"
	RoleMiddleManager Role = "middle_manager"
	RoleTeamMember    Role = "team_member"
	RolePartner       Role = "partner"
	RoleClient        Role = "client"

	// RoleNone is returned for unauthenticated callers. It has no access anywhere.
	RoleNone Role = "none"
)

// RolePriority lists roles from most to least privileged. Group resolution scans in this order.
var RolePriority = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleMiddleManager,
	RoleTeamMember,
	RolePartner,
	RoleClient,
}

func (r Role) String() string {
	return string(r)
}

// IsKnown reports whether r is one of the six assignable roles.
func (r Role) IsKnown() bool {
	for _, known := range RolePriority {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts the canonical snake_case name as well as the CamelCase spelling.
func ParseRole(s string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	switch normalized {
	case "super_admin", "superadmin":
		return RoleSuperAdmin, true
	case "admin":
		return RoleAdmin, true
	case "middle_manager", "middlemanager":
		return RoleMiddleManager, true
	case "team_member", "teammember":
		return RoleTeamMember, true
	case "partner":
		return RolePartner, true
	case "client":
		return RoleClient, true
	case "none":
		return RoleNone, true
	}
	return RoleNone, false
}
