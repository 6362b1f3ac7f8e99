package access

import (
	"fmt"
)

// Matrix maps every role and module to a permission level. It is immutable once built and safe to share
// between requests.
type Matrix struct {
	levels map[Role]map[Module]Level
}

// ModuleAccess is one cell of a role's row.
type ModuleAccess struct {
	Module Module `json:"module"`
	Level  Level  `json:"level"`
}

// Decision is the typed result of a module gate check.
type Decision struct {
	Allowed  bool
	Role     Role
	Module   Module
	Required Level
	Granted  Level
}

// Denial is the 403 body returned when a module gate rejects a caller.
type Denial struct {
	Error          string `json:"error"`
	UserRole       Role   `json:"user_role"`
	RequiredModule Module `json:"required_module"`
	RequiredLevel  Level  `json:"required_level"`
}

func (d Decision) Denial() Denial {
	return Denial{
		Error:          fmt.Sprintf("insufficient permission for module %s", d.Module),
		UserRole:       d.Role,
		RequiredModule: d.Module,
		RequiredLevel:  d.Required,
	}
}

var defaultLevels = map[Role]map[Module]Level{
	RoleSuperAdmin: {
		ModuleDashboard:      LevelFull,
		ModuleUserManagement: LevelFull,
		ModuleReports:        LevelFull,
		ModuleCalendar:       LevelFull,
		ModuleFieldReports:   LevelFull,
		ModuleExternalSync:   LevelFull,
		ModuleSettings:       LevelFull,
		ModuleAdmin:          LevelFull,
	},
	RoleAdmin: {
		ModuleDashboard:      LevelFull,
		ModuleUserManagement: LevelFull,
		ModuleReports:        LevelFull,
		ModuleCalendar:       LevelFull,
		ModuleFieldReports:   LevelFull,
		ModuleExternalSync:   LevelReadWrite,
		ModuleSettings:       LevelReadWrite,
		ModuleAdmin:          LevelReadOnly,
	},
	RoleMiddleManager: {
		ModuleDashboard:      LevelReadWrite,
		ModuleUserManagement: LevelReadOnly,
		ModuleReports:        LevelReadWrite,
		ModuleCalendar:       LevelReadWrite,
		ModuleFieldReports:   LevelReadWrite,
		ModuleExternalSync:   LevelReadOnly,
	},
	RoleTeamMember: {
		ModuleDashboard:    LevelReadOnly,
		ModuleReports:      LevelReadWrite,
		ModuleCalendar:     LevelReadWrite,
		ModuleFieldReports: LevelReadWrite,
	},
	RolePartner: {
		ModuleDashboard:    LevelReadOnly,
		ModuleReports:      LevelReadOnly,
		ModuleCalendar:     LevelReadOnly,
		ModuleFieldReports: LevelReadOnly,
	},
	RoleClient: {
		ModuleDashboard: LevelReadOnly,
		ModuleReports:   LevelReadOnly,
	},
}

// DefaultMatrix returns the built-in role/module table.
func DefaultMatrix() *Matrix {
	return NewMatrix(defaultLevels)
}

// NewMatrix copies entries into a total table: every known role gets an explicit level for every module,
// LevelNone where entries are silent.
func NewMatrix(entries map[Role]map[Module]Level) *Matrix {
	levels := make(map[Role]map[Module]Level, len(RolePriority))
	for _, role := range RolePriority {
		row := make(map[Module]Level, len(Modules))
		for _, module := range Modules {
			row[module] = LevelNone
			if lvl, ok := entries[role][module]; ok {
				row[module] = lvl
			}
		}
		levels[role] = row
	}
	return &Matrix{levels: levels}
}

// WithOverrides returns a new matrix with the given cells replaced. Keys are role, module and level names
// as they appear in configuration.
func (m *Matrix) WithOverrides(overrides map[string]map[string]string) (*Matrix, error) {
	entries := m.Table()
	for roleName, cells := range overrides {
		role, ok := ParseRole(roleName)
		if !ok || !role.IsKnown() {
			return nil, fmt.Errorf("matrix override: unknown role %q", roleName)
		}
		for moduleName, levelName := range cells {
			module, ok := ParseModule(moduleName)
			if !ok {
				return nil, fmt.Errorf("matrix override: unknown module %q for role %s", moduleName, role)
			}
			lvl, err := ParseLevel(levelName)
			if err != nil {
				return nil, fmt.Errorf("matrix override: role %s module %s: %w", role, module, err)
			}
			entries[role][module] = lvl
		}
	}
	return NewMatrix(entries), nil
}

// Level returns the level granted to role on module. SuperAdmin is always Full; unknown roles get None.
func (m *Matrix) Level(role Role, module Module) Level {
	if role == RoleSuperAdmin {
		return LevelFull
	}
	row, ok := m.levels[role]
	if !ok {
		return LevelNone
	}
	return row[module]
}

// HasModuleAccess reports whether role holds at least required on module.
func (m *Matrix) HasModuleAccess(role Role, module Module, required Level) bool {
	return m.Check(role, module, required).Allowed
}

// CanRead is HasModuleAccess with the default ReadOnly requirement.
func (m *Matrix) CanRead(role Role, module Module) bool {
	return m.HasModuleAccess(role, module, LevelReadOnly)
}

func (m *Matrix) Check(role Role, module Module, required Level) Decision {
	d := Decision{
		Role:     role,
		Module:   module,
		Required: required,
		Granted:  m.Level(role, module),
	}

	switch {
	case role == RoleSuperAdmin:
		d.Allowed = true
	case !role.IsKnown():
		d.Allowed = false
	default:
		d.Allowed = d.Granted.Satisfies(required)
	}
	return d
}

// Row lists the levels of role for every module, in module order.
func (m *Matrix) Row(role Role) []ModuleAccess {
	row := make([]ModuleAccess, 0, len(Modules))
	for _, module := range Modules {
		row = append(row, ModuleAccess{Module: module, Level: m.Level(role, module)})
	}
	return row
}

// Table returns a deep copy of the underlying levels.
func (m *Matrix) Table() map[Role]map[Module]Level {
	out := make(map[Role]map[Module]Level, len(m.levels))
	for role, row := range m.levels {
		copied := make(map[Module]Level, len(row))
		for module, lvl := range row {
			copied[module] = lvl
		}
		out[role] = copied
	}
	return out
}
