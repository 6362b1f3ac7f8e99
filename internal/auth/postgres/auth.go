package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/revenue-management/internal/auth"
	userDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForUsername(ctx context.Context, email string) (string, int64, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "password_hash", "is_active").
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, auth.ErrUserNotFound
		}
		return "", 0, fmt.Errorf("lookup credentials: %w", err)
	}
	if !u.IsActive {
		return "", 0, auth.ErrUserInactive
	}
	return u.PasswordHash, u.ID, nil
}

func (r *Repository) GetUserWithGroups(ctx context.Context, userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	var groups []string
	err = r.db.WithContext(ctx).
		Table("groups").
		Joins("JOIN user_groups ug ON ug.group_id = groups.id").
		Where("ug.user_id = ?", userID).
		Order("groups.name").
		Pluck("groups.name", &groups).Error
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	return &auth.User{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		IsSuperuser:     u.IsSuperuser,
		Groups:          groups,
		ClientProfileID: u.ClientProfileID,
	}, nil
}
