package access

import (
	"fmt"
	"strings"
)

// Level is a module permission level. Levels are totally ordered and a higher level subsumes a lower one.
type Level int

const (
	LevelNone      Level = 0
	LevelReadOnly  Level = 1
	LevelReadWrite Level = 2
	LevelFull      Level = 3
)

var levelNames = map[Level]string{
	LevelNone:      "none",
	LevelReadOnly:  "read_only",
	LevelReadWrite: "read_write",
	LevelFull:      "full",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Satisfies reports whether l is at least required.
func (l Level) Satisfies(required Level) bool {
	return l >= required
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func ParseLevel(s string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch normalized {
	case "none", "0":
		return LevelNone, nil
	case "read_only", "readonly", "read", "1":
		return LevelReadOnly, nil
	case "read_write", "readwrite", "write", "2":
		return LevelReadWrite, nil
	case "full", "3":
		return LevelFull, nil
	}
	return LevelNone, fmt.Errorf("unknown permission level %q", s)
}

// Module is a functional area of the application with its own permission level.
type Module string

const (
	ModuleDashboard      Module = "dashboard"
	ModuleUserManagement Module = "user_management"
	ModuleReports        Module = "reports"
	ModuleCalendar       Module = "calendar"
	ModuleFieldReports   Module = "field_reports"
	ModuleExternalSync   Module = "external_sync"
	ModuleSettings       Module = "settings"
	ModuleAdmin          Module = "admin"
)

// Modules is the fixed module set in display order.
var Modules = []Module{
	ModuleDashboard,
	ModuleUserManagement,
	ModuleReports,
	ModuleCalendar,
	ModuleFieldReports,
	ModuleExternalSync,
	ModuleSettings,
	ModuleAdmin,
}

func (m Module) String() string {
	return string(m)
}

func ParseModule(s string) (Module, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, m := range Modules {
		if string(m) == normalized {
			return m, true
		}
	}
	return "", false
}
