package revenue

import (
	"time"

	"github.com/frahmantamala/revenue-management/internal/access"
	revenueDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/revenue"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPartial   = "partial"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// PaymentStatuses lists every accepted payment status.
var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPartial,
	PaymentStatusPaid,
	PaymentStatusOverdue,
	PaymentStatusCancelled,
}

// Revenue is a revenue record together with the ownership of its project.
type Revenue struct {
	ID              int64
	ProjectID       int64
	ProjectName     string
	ProjectStatus   string
	ClientID        int64
	ClientName      string
	ManagerID       int64
	MemberIDs       []int64
	SalesPersonID   int64
	SalesPersonName string
	Amount          int64
	NetAmount       *int64
	TaxAmount       *int64
	InvoiceNumber   *string
	Notes           *string
	InvoiceDate     *time.Time
	DueDate         *time.Time
	PaymentDate     *time.Time
	PaymentStatus   string
	CreatedAt       time.Time
}

func (r *Revenue) Ownership() access.Ownership {
	return access.Ownership{
		RecordID:      r.ID,
		ManagerID:     r.ManagerID,
		TeamMemberIDs: r.MemberIDs,
		SalesPersonID: r.SalesPersonID,
		ClientID:      r.ClientID,
	}
}

// ToView projects the record into its unmasked serialized form.
func (r *Revenue) ToView() access.RevenueView {
	view := access.RevenueView{
		ID:            r.ID,
		ProjectID:     r.ProjectID,
		ProjectName:   r.ProjectName,
		ClientName:    r.ClientName,
		SalesPerson:   r.SalesPersonName,
		PaymentStatus: r.PaymentStatus,
		Amount:        access.Number(r.Amount),
		InvoiceNumber: access.OptionalText(r.InvoiceNumber),
		Notes:         access.OptionalText(r.Notes),
		InvoiceDate:   access.OptionalDate(r.InvoiceDate),
		DueDate:       access.OptionalDate(r.DueDate),
		PaymentDate:   access.OptionalDate(r.PaymentDate),
	}
	if r.NetAmount != nil {
		view.NetAmount = access.Number(*r.NetAmount)
	}
	if r.TaxAmount != nil {
		view.TaxAmount = access.Number(*r.TaxAmount)
	}
	return view
}

func ToViews(revenues []*Revenue) []access.RevenueView {
	views := make([]access.RevenueView, len(revenues))
	for i, r := range revenues {
		views[i] = r.ToView()
	}
	return views
}

// FromDataModel maps a row with its preloaded project, client, members and sales person.
func FromDataModel(m *revenueDatamodel.Revenue) *Revenue {
	r := &Revenue{
		ID:            m.ID,
		ProjectID:     m.ProjectID,
		ProjectName:   m.Project.Name,
		ProjectStatus: m.Project.Status,
		Amount:        m.Amount,
		NetAmount:     m.NetAmount,
		TaxAmount:     m.TaxAmount,
		InvoiceNumber: m.InvoiceNumber,
		Notes:         m.Notes,
		InvoiceDate:   m.InvoiceDate,
		DueDate:       m.DueDate,
		PaymentDate:   m.PaymentDate,
		PaymentStatus: m.PaymentStatus,
		CreatedAt:     m.CreatedAt,
	}
	if m.Project.ManagerID != nil {
		r.ManagerID = *m.Project.ManagerID
	}
	if m.Project.ClientID != nil {
		r.ClientID = *m.Project.ClientID
	}
	if m.Project.Client != nil {
		r.ClientName = m.Project.Client.Name
	}
	for _, member := range m.Project.Members {
		r.MemberIDs = append(r.MemberIDs, member.UserID)
	}
	if m.SalesPersonID != nil {
		r.SalesPersonID = *m.SalesPersonID
	}
	if m.SalesPerson != nil {
		r.SalesPersonName = m.SalesPerson.Name
	}
	return r
}

func FromDataModelSlice(rows []*revenueDatamodel.Revenue) []*Revenue {
	result := make([]*Revenue, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}

// StatusTotal is the unmasked aggregate of one payment status.
type StatusTotal struct {
	PaymentStatus string
	Count         int64
	Amount        int64
}
