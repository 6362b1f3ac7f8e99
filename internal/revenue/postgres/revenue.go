package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	revenueDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/revenue"
	"github.com/frahmantamala/revenue-management/internal/revenue"
	"gorm.io/gorm"
)

const (
	managedProjects = "revenues.project_id IN (SELECT id FROM projects WHERE manager_id = ?)"
	memberProjects  = "revenues.project_id IN (SELECT project_id FROM project_members WHERE user_id = ?)"
	clientProjects  = "revenues.project_id IN (SELECT id FROM projects WHERE client_id = ?)"
)

// RevenueRepository implements revenue.RepositoryAPI with GORM. Visibility scopes become subqueries, so a
// record matching through several memberships is still returned once.
type RevenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// applyScope restricts a revenues query to scope. Unknown scope kinds match nothing.
func applyScope(db *gorm.DB, scope access.Scope) *gorm.DB {
	switch scope.Kind {
	case access.ScopeAll:
		return db
	case access.ScopeManagedOrMember:
		return db.Where("("+managedProjects+" OR "+memberProjects+")", scope.UserID, scope.UserID)
	case access.ScopeSoldOrMember:
		return db.Where("(revenues.sales_person_id = ? OR "+memberProjects+")", scope.UserID, scope.UserID)
	case access.ScopeMember:
		return db.Where(memberProjects, scope.UserID)
	case access.ScopeClient:
		return db.Where(clientProjects, scope.ClientID)
	}
	return db.Where("1 = 0")
}

func applyFilters(db *gorm.DB, q revenue.ListQuery) *gorm.DB {
	if q.PaymentStatus != "" {
		db = db.Where("revenues.payment_status = ?", q.PaymentStatus)
	}
	if q.From != nil {
		db = db.Where("revenues.invoice_date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("revenues.invoice_date < ?", q.To.AddDate(0, 0, 1))
	}
	return db
}

func (r *RevenueRepository) scoped(ctx context.Context, scope access.Scope, q revenue.ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&revenueDatamodel.Revenue{})
	return applyFilters(applyScope(db, scope), q)
}

func (r *RevenueRepository) List(ctx context.Context, scope access.Scope, q revenue.ListQuery) ([]*revenue.Revenue, error) {
	var rows []*revenueDatamodel.Revenue
	err := r.scoped(ctx, scope, q).
		Preload("Project.Members").
		Preload("Project.Client").
		Preload("SalesPerson").
		Order("revenues.invoice_date DESC").
		Order("revenues.id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	return revenue.FromDataModelSlice(rows), nil
}

func (r *RevenueRepository) Count(ctx context.Context, scope access.Scope, q revenue.ListQuery) (int64, error) {
	var n int64
	if err := r.scoped(ctx, scope, q).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count revenues: %w", err)
	}
	return n, nil
}

func (r *RevenueRepository) GetByID(ctx context.Context, scope access.Scope, id int64) (*revenue.Revenue, error) {
	var row revenueDatamodel.Revenue
	err := applyScope(r.db.WithContext(ctx).Model(&revenueDatamodel.Revenue{}), scope).
		Preload("Project.Members").
		Preload("Project.Client").
		Preload("SalesPerson").
		Where("revenues.id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRevenueNotFound
		}
		return nil, fmt.Errorf("get revenue %d: %w", id, err)
	}
	return revenue.FromDataModel(&row), nil
}

func (r *RevenueRepository) Summary(ctx context.Context, scope access.Scope, q revenue.ListQuery) ([]revenue.StatusTotal, error) {
	var totals []revenue.StatusTotal
	err := r.scoped(ctx, scope, q).
		Select("revenues.payment_status AS payment_status, COUNT(*) AS count, COALESCE(SUM(revenues.amount), 0) AS amount").
		Group("revenues.payment_status").
		Order("revenues.payment_status").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("summarize revenues: %w", err)
	}
	return totals, nil
}
