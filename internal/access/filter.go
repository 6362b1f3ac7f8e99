package access

// Ownership is the part of a revenue record that visibility rules look at. Zero IDs mean "not set".
type Ownership struct {
	RecordID      int64
	ManagerID     int64
	TeamMemberIDs []int64
	SalesPersonID int64
	ClientID      int64
}

// Owned is implemented by record types that can be filtered.
type Owned interface {
	Ownership() Ownership
}

// ScopeKind selects which ownership predicate applies.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeManagedOrMember
	ScopeSoldOrMember
	ScopeMember
	ScopeClient
)

// Scope is the visibility predicate for one caller, as data. Repositories translate it into a query;
// Filter evaluates it in memory.
type Scope struct {
	Kind     ScopeKind
	UserID   int64
	ClientID int64
}

// ScopeFor computes the visibility scope of a caller holding role.
func ScopeFor(id *Identity, role Role) Scope {
	if id == nil || !id.Authenticated {
		return Scope{Kind: ScopeNone}
	}

	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return Scope{Kind: ScopeAll}
	case RoleMiddleManager:
		return Scope{Kind: ScopeManagedOrMember, UserID: id.UserID}
	case RoleTeamMember:
		return Scope{Kind: ScopeSoldOrMember, UserID: id.UserID}
	case RolePartner:
		return Scope{Kind: ScopeMember, UserID: id.UserID}
	case RoleClient:
		if !id.HasClientProfile() {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeClient, ClientID: id.ClientProfileID}
	}
	return Scope{Kind: ScopeNone}
}

// Allows reports whether a record with the given ownership is inside the scope.
func (s Scope) Allows(o Ownership) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeManagedOrMember:
		return (o.ManagerID != 0 && o.ManagerID == s.UserID) || isMember(o, s.UserID)
	case ScopeSoldOrMember:
		return (o.SalesPersonID != 0 && o.SalesPersonID == s.UserID) || isMember(o, s.UserID)
	case ScopeMember:
		return isMember(o, s.UserID)
	case ScopeClient:
		return s.ClientID != 0 && o.ClientID == s.ClientID
	}
	return false
}

// IsEmpty reports whether the scope can never match anything.
func (s Scope) IsEmpty() bool {
	return s.Kind == ScopeNone
}

func isMember(o Ownership, userID int64) bool {
	if userID == 0 {
		return false
	}
	for _, member := range o.TeamMemberIDs {
		if member == userID {
			return true
		}
	}
	return false
}

// Filter returns the records inside scope as a new slice. Records sharing an ID are kept once, at the
// position of their first occurrence. Records without an ID (zero) are never treated as duplicates.
// The input slice is not modified.
func Filter[T Owned](records []T, scope Scope) []T {
	out := make([]T, 0, len(records))
	if scope.IsEmpty() {
		return out
	}

	seen := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		o := rec.Ownership()
		if !scope.Allows(o) {
			continue
		}
		if o.RecordID != 0 {
			if _, dup := seen[o.RecordID]; dup {
				continue
			}
			seen[o.RecordID] = struct{}{}
		}
		out = append(out, rec)
	}
	return out
}

// FilterVisible narrows records to the ones a caller holding role may see.
func FilterVisible[T Owned](records []T, id *Identity, role Role) []T {
	return Filter(records, ScopeFor(id, role))
}
