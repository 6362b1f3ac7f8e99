package user

import "time"

type User struct {
	ID              int64     `gorm:"primaryKey"`
	Email           string    `gorm:"column:email;uniqueIndex;not null"`
	Name            string    `gorm:"column:name;not null"`
	PasswordHash    string    `gorm:"column:password_hash;not null"`
	IsActive        bool      `gorm:"column:is_active;default:true"`
	IsSuperuser     bool      `gorm:"column:is_superuser;default:false"`
	ClientProfileID *int64    `gorm:"column:client_profile_id"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Group is a named set of users. Group names map to access roles.
type Group struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

type UserGroup struct {
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	GroupID   int64     `gorm:"column:group_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
