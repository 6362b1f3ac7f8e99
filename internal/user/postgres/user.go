package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/revenue-management/internal/user"
	"github.com/jmoiron/sqlx"
)

type pgRepo struct {
	db *sqlx.DB
}

// NewRepository returns a sqlx-backed user.Repository. Queries are written with ? and rebound for the
// connection's driver.
func NewRepository(db *sqlx.DB) user.Repository {
	return &pgRepo{db: db}
}

func (p *pgRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	query := p.db.Rebind(`
SELECT id, email, name, is_active, is_superuser, client_profile_id, created_at, updated_at
FROM users
WHERE id = ?`)
	if err := p.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("get user query: %w", err)
	}
	return &u, nil
}

func (p *pgRepo) GetGroups(ctx context.Context, userID int64) ([]string, error) {
	groups := []string{}
	query := p.db.Rebind(`
SELECT g.name
FROM groups g
JOIN user_groups ug ON ug.group_id = g.id
WHERE ug.user_id = ?
ORDER BY g.name`)
	if err := p.db.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, fmt.Errorf("get groups query: %w", err)
	}
	return groups, nil
}
