package access

import (
	"fmt"
	"strings"
)

// Identity is what the resolver needs to know about the caller.
type Identity struct {
	UserID        int64
	Authenticated bool
	IsSuperuser   bool
	Groups        []string
	// ClientProfileID is the linked client record for client users. Zero means no profile.
	ClientProfileID int64
}

// HasClientProfile reports whether the identity is linked to a client record.
func (id *Identity) HasClientProfile() bool {
	return id != nil && id.ClientProfileID > 0
}

// DefaultGroupRoles is the built-in group name to role mapping.
func DefaultGroupRoles() map[string]Role {
	return map[string]Role{
		"super_admin":    RoleSuperAdmin,
		"admin":          RoleAdmin,
		"middle_manager": RoleMiddleManager,
		"team_member":    RoleTeamMember,
		"partner":        RolePartner,
		"client":         RoleClient,
	}
}

// Resolver derives a single role from superuser and group state.
type Resolver struct {
	groupRoles map[string]Role
	fallback   Role
}

// NewResolver builds a resolver. fallback is the role given to authenticated users whose groups match
// nothing.
func NewResolver(groupRoles map[string]Role, fallback Role) *Resolver {
	copied := make(map[string]Role, len(groupRoles))
	for group, role := range groupRoles {
		copied[normalizeGroup(group)] = role
	}
	return &Resolver{groupRoles: copied, fallback: fallback}
}

// normalizeGroup makes group matching ignore case and surrounding spaces. Config loaders lowercase map
// keys while group rows keep theirs.
func normalizeGroup(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultResolver uses DefaultGroupRoles and falls back to TeamMember.
func DefaultResolver() *Resolver {
	return NewResolver(DefaultGroupRoles(), RoleTeamMember)
}

// ResolverFromConfig parses group and fallback role names as they appear in configuration. An empty
// groupRoles map keeps the defaults.
func ResolverFromConfig(groupRoles map[string]string, fallback string) (*Resolver, error) {
	mapping := DefaultGroupRoles()
	if len(groupRoles) > 0 {
		mapping = make(map[string]Role, len(groupRoles))
		for group, roleName := range groupRoles {
			role, ok := ParseRole(roleName)
			if !ok || !role.IsKnown() {
				return nil, fmt.Errorf("group %q: unknown role %q", group, roleName)
			}
			mapping[group] = role
		}
	}

	fallbackRole := RoleTeamMember
	if fallback != "" {
		role, ok := ParseRole(fallback)
		if !ok {
			return nil, fmt.Errorf("unknown fallback role %q", fallback)
		}
		fallbackRole = role
	}

	return NewResolver(mapping, fallbackRole), nil
}

// Resolve returns the caller's role. Unauthenticated callers get RoleNone. Superusers are SuperAdmin.
// Otherwise the highest-priority role among the caller's groups wins, and callers without a matching
// group get the fallback role.
func (r *Resolver) Resolve(id *Identity) Role {
	if id == nil || !id.Authenticated {
		return RoleNone
	}
	if id.IsSuperuser {
		return RoleSuperAdmin
	}

	held := make(map[Role]bool, len(id.Groups))
	for _, group := range id.Groups {
		if role, ok := r.groupRoles[normalizeGroup(group)]; ok {
			held[role] = true
		}
	}
	for _, role := range RolePriority {
		if held[role] {
			return role
		}
	}

	return r.fallback
}
