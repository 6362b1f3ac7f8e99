package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetGroups(ctx context.Context, userID int64) ([]string, error)
}

type Service struct {
	repo   Repository
	engine *access.Engine
}

func NewService(repo Repository, engine *access.Engine) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
	}
}

// GetProfile loads the user with their groups and resolves role and module levels.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	groups, err := s.repo.GetGroups(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}
	u.Groups = groups

	role := s.engine.ResolveRole(u.Identity())
	return &Profile{
		User:    u,
		Role:    role,
		Modules: s.engine.Matrix().Row(role),
	}, nil
}

func (s *Service) Matrix() MatrixResponse {
	m := s.engine.Matrix()
	resp := MatrixResponse{
		Modules: append([]access.Module(nil), access.Modules...),
		Roles:   make([]RoleRow, 0, len(access.RolePriority)),
	}
	for _, role := range access.RolePriority {
		resp.Roles = append(resp.Roles, RoleRow{Role: role, Modules: m.Row(role)})
	}
	return resp
}
