package revenue_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/core/events"
	"github.com/frahmantamala/revenue-management/internal/revenue"
)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// fixtures: manager 10 runs projects 1 and 3, user 20 sells record 2 and works on project 1, partner 40
// works on project 1, client profile 500 owns projects 1 and 3.
func fixtures() []*revenue.Revenue {
	return []*revenue.Revenue{
		{
			ID: 3, ProjectID: 3, ProjectName: "Warehouse", ManagerID: 10, ClientID: 500, ClientName: "Acme",
			SalesPersonID: 31, Amount: 77_000_000, PaymentStatus: revenue.PaymentStatusOverdue,
			InvoiceDate: day(2024, 5, 1), InvoiceNumber: ptr("INV-3"),
		},
		{
			ID: 2, ProjectID: 2, ProjectName: "Kiosk", ManagerID: 11, MemberIDs: []int64{21}, ClientID: 501,
			SalesPersonID: 20, SalesPersonName: "Dana", Amount: 5_500_000, PaymentStatus: revenue.PaymentStatusPaid,
			InvoiceDate: day(2024, 4, 1),
		},
		{
			ID: 1, ProjectID: 1, ProjectName: "Store renewal", ManagerID: 10, MemberIDs: []int64{20, 40},
			ClientID: 500, ClientName: "Acme", SalesPersonID: 30, Amount: 1_234_567,
			NetAmount: ptr(int64(1_122_334)), TaxAmount: ptr(int64(112_233)),
			InvoiceNumber: ptr("INV-1"), Notes: ptr("first instalment"),
			InvoiceDate: day(2024, 3, 1), DueDate: day(2024, 3, 31),
			PaymentStatus: revenue.PaymentStatusPending,
		},
	}
}

func identity(userID int64, groups ...string) *access.Identity {
	return &access.Identity{UserID: userID, Authenticated: true, Groups: groups}
}

func clientIdentity(userID, profile int64) *access.Identity {
	return &access.Identity{UserID: userID, Authenticated: true, Groups: []string{"client"}, ClientProfileID: profile}
}

func ids(views []access.RevenueView) []int64 {
	out := make([]int64, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

// mockRepository evaluates scopes in memory. leak makes it ignore the scope.
type mockRepository struct {
	records []*revenue.Revenue
	leak    bool
	err     error
}

func (m *mockRepository) matching(scope access.Scope, q revenue.ListQuery) []*revenue.Revenue {
	var out []*revenue.Revenue
	for _, r := range m.records {
		if !m.leak && !scope.Allows(r.Ownership()) {
			continue
		}
		if q.PaymentStatus != "" && r.PaymentStatus != q.PaymentStatus {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *mockRepository) List(_ context.Context, scope access.Scope, q revenue.ListQuery) ([]*revenue.Revenue, error) {
	if m.err != nil {
		return nil, m.err
	}
	rows := m.matching(scope, q)
	if q.Offset >= len(rows) {
		return nil, nil
	}
	rows = rows[q.Offset:]
	if q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func (m *mockRepository) Count(_ context.Context, scope access.Scope, q revenue.ListQuery) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.matching(scope, q))), nil
}

func (m *mockRepository) GetByID(_ context.Context, scope access.Scope, id int64) (*revenue.Revenue, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.matching(scope, revenue.ListQuery{}) {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, internal.ErrRevenueNotFound
}

func (m *mockRepository) Summary(_ context.Context, scope access.Scope, q revenue.ListQuery) ([]revenue.StatusTotal, error) {
	if m.err != nil {
		return nil, m.err
	}
	byStatus := map[string]*revenue.StatusTotal{}
	var order []string
	for _, r := range m.matching(scope, q) {
		t, ok := byStatus[r.PaymentStatus]
		if !ok {
			t = &revenue.StatusTotal{PaymentStatus: r.PaymentStatus}
			byStatus[r.PaymentStatus] = t
			order = append(order, r.PaymentStatus)
		}
		t.Count++
		t.Amount += r.Amount
	}
	out := make([]revenue.StatusTotal, 0, len(order))
	for _, s := range order {
		out = append(out, *byStatus[s])
	}
	return out, nil
}

var errDatabase = errors.New("database unavailable")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}
