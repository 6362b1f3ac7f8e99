package user

import "github.com/frahmantamala/revenue-management/internal/access"

type RoleRow struct {
	Role    access.Role           `json:"role"`
	Modules []access.ModuleAccess `json:"modules"`
}

// MatrixResponse is the full module matrix, roles from most to least privileged.
type MatrixResponse struct {
	Modules []access.Module `json:"modules"`
	Roles   []RoleRow       `json:"roles"`
}
