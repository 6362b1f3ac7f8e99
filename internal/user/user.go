package user

import (
	"time"

	"github.com/frahmantamala/revenue-management/internal/access"
)

type User struct {
	ID              int64     `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	Name            string    `json:"name" db:"name"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	IsSuperuser     bool      `json:"is_superuser" db:"is_superuser"`
	ClientProfileID *int64    `json:"client_profile_id,omitempty" db:"client_profile_id"`
	Groups          []string  `json:"groups" db:"-"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) Identity() *access.Identity {
	id := &access.Identity{
		UserID:        u.ID,
		Authenticated: true,
		IsSuperuser:   u.IsSuperuser,
		Groups:        u.Groups,
	}
	if u.ClientProfileID != nil {
		id.ClientProfileID = *u.ClientProfileID
	}
	return id
}

// Profile is a user together with what the access policy grants them.
type Profile struct {
	User    *User                 `json:"user"`
	Role    access.Role           `json:"role"`
	Modules []access.ModuleAccess `json:"modules"`
}
