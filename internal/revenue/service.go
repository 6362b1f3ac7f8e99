package revenue

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/core/events"
	"golang.org/x/text/language"
)

// RepositoryAPI reads revenue records restricted to a visibility scope.
type RepositoryAPI interface {
	List(ctx context.Context, scope access.Scope, q ListQuery) ([]*Revenue, error)
	Count(ctx context.Context, scope access.Scope, q ListQuery) (int64, error)
	// GetByID returns internal.ErrRevenueNotFound for missing records and for records outside scope.
	GetByID(ctx context.Context, scope access.Scope, id int64) (*Revenue, error)
	Summary(ctx context.Context, scope access.Scope, q ListQuery) ([]StatusTotal, error)
}

type Service struct {
	repo        RepositoryAPI
	engine      *access.Engine
	publisher   events.Publisher
	logger      *slog.Logger
	exportLimit int
}

func NewService(repo RepositoryAPI, engine *access.Engine, publisher events.Publisher, exportLimit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		engine:      engine,
		publisher:   publisher,
		logger:      logger,
		exportLimit: exportLimit,
	}
}

// List returns one page of the caller's visible revenues, masked for the caller's role.
func (s *Service) List(ctx context.Context, id *access.Identity, q ListQuery) (*ListResponse, error) {
	role := s.engine.ResolveRole(id)
	scope := s.engine.ScopeFor(id)

	total, err := s.repo.Count(ctx, scope, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count revenues", "error", err, "role", role)
		return nil, internal.NewInternalError("Failed to load revenues", err)
	}

	rows, err := s.repo.List(ctx, scope, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list revenues", "error", err, "role", role)
		return nil, internal.NewInternalError("Failed to load revenues", err)
	}

	visible := s.visible(ctx, rows, id)

	return &ListResponse{
		Revenues: s.engine.MaskAll(ToViews(visible), id, s.locale(ctx)),
		Total:    total,
		Limit:    q.Limit,
		Offset:   q.Offset,
		Role:     role,
	}, nil
}

// Get returns a single revenue. Records the caller may not see are reported as not found.
func (s *Service) Get(ctx context.Context, id *access.Identity, revenueID int64) (*access.RevenueView, error) {
	rec, err := s.repo.GetByID(ctx, s.engine.ScopeFor(id), revenueID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to load revenue", "error", err, "revenue_id", revenueID)
		return nil, internal.NewInternalError("Failed to load revenue", err)
	}

	if len(s.visible(ctx, []*Revenue{rec}, id)) == 0 {
		return nil, internal.ErrRevenueNotFound
	}

	view := s.engine.MaskFor(rec.ToView(), id, s.locale(ctx))
	return &view, nil
}

var exportHeader = []string{
	"id", "project", "client", "sales_person", "payment_status",
	"amount", "net_amount", "tax_amount", "invoice_number", "notes",
	"invoice_date", "due_date", "payment_date",
}

// Export writes every visible revenue matching q as masked CSV. Paging in q is ignored. Exports larger
// than the configured limit are refused before anything is written.
func (s *Service) Export(ctx context.Context, id *access.Identity, q ListQuery, w io.Writer) (int, error) {
	role := s.engine.ResolveRole(id)
	scope := s.engine.ScopeFor(id)

	total, err := s.repo.Count(ctx, scope, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count revenues for export", "error", err, "role", role)
		return 0, internal.NewInternalError("Failed to export revenues", err)
	}
	if total > int64(s.exportLimit) {
		s.logger.WarnContext(ctx, "export refused", "rows", total, "limit", s.exportLimit, "role", role)
		return 0, internal.NewValidationError(internal.ErrExportLimitExceeded.Message, internal.ErrCodeExportLimitExceeded).WithDetails(map[string]int64{
			"rows":  total,
			"limit": int64(s.exportLimit),
		})
	}

	q.Limit = int(total)
	q.Offset = 0
	rows, err := s.repo.List(ctx, scope, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list revenues for export", "error", err, "role", role)
		return 0, internal.NewInternalError("Failed to export revenues", err)
	}

	views := s.engine.MaskAll(ToViews(s.visible(ctx, rows, id)), id, s.locale(ctx))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	masked := false
	for _, v := range views {
		masked = masked || v.IsMasked
		record := []string{
			strconv.FormatInt(v.ID, 10), v.ProjectName, v.ClientName, v.SalesPerson, v.PaymentStatus,
			v.Amount.String(), v.NetAmount.String(), v.TaxAmount.String(), v.InvoiceNumber.String(), v.Notes.String(),
			v.InvoiceDate.String(), v.DueDate.String(), v.PaymentDate.String(),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	var userID int64
	if id != nil {
		userID = id.UserID
	}
	s.logger.InfoContext(ctx, "revenues exported", "rows", len(views), "role", role, "masked", masked)
	if s.publisher != nil {
		evt := events.NewRevenueExportedEvent(userID, role.String(), len(views), masked)
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish export event", "error", err)
		}
	}

	return len(views), nil
}

// Summary aggregates the caller's visible revenues per payment status. Totals are masked with the same
// amount rule as individual records.
func (s *Service) Summary(ctx context.Context, id *access.Identity, q ListQuery) (*SummaryResponse, error) {
	role := s.engine.ResolveRole(id)

	totals, err := s.repo.Summary(ctx, s.engine.ScopeFor(id), q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to summarize revenues", "error", err, "role", role)
		return nil, internal.NewInternalError("Failed to load dashboard summary", err)
	}

	masker := s.engine.Masker(s.locale(ctx))
	resp := &SummaryResponse{
		Role:     role,
		ByStatus: make([]StatusSummary, 0, len(totals)),
	}
	var grand int64
	for _, t := range totals {
		grand += t.Amount
		resp.Count += t.Count
		resp.ByStatus = append(resp.ByStatus, StatusSummary{
			PaymentStatus: t.PaymentStatus,
			Count:         t.Count,
			Amount:        masker.MaskAmount(role, t.Amount),
		})
	}
	resp.Total = masker.MaskAmount(role, grand)
	resp.IsMasked = resp.Total.IsText()
	return resp, nil
}

// visible re-applies the in-memory filter to repository output. A mismatch means the SQL scope and the
// filter disagree and is logged.
func (s *Service) visible(ctx context.Context, rows []*Revenue, id *access.Identity) []*Revenue {
	visible := access.Visible(s.engine, rows, id)
	if len(visible) != len(rows) {
		s.logger.WarnContext(ctx, "repository returned rows outside the caller's scope",
			"returned", len(rows), "visible", len(visible))
	}
	return visible
}

func (s *Service) locale(ctx context.Context) language.Tag {
	if tag, ok := internal.LocaleFromContext(ctx); ok {
		return tag
	}
	return language.Und
}
