package revenue

import (
	"time"

	userDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/user"
)

type Client struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	ContactEmail string    `gorm:"column:contact_email"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Project struct {
	ID        int64           `gorm:"primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Status    string          `gorm:"column:status;not null;default:in_progress"`
	ClientID  *int64          `gorm:"column:client_id"`
	ManagerID *int64          `gorm:"column:manager_id"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	Client    *Client         `gorm:"foreignKey:ClientID"`
	Members   []ProjectMember `gorm:"foreignKey:ProjectID"`
}

type ProjectMember struct {
	ProjectID int64     `gorm:"column:project_id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Revenue struct {
	ID            int64               `gorm:"primaryKey"`
	ProjectID     int64               `gorm:"column:project_id;not null;index"`
	SalesPersonID *int64              `gorm:"column:sales_person_id;index"`
	Amount        int64               `gorm:"column:amount;not null"`
	NetAmount     *int64              `gorm:"column:net_amount"`
	TaxAmount     *int64              `gorm:"column:tax_amount"`
	InvoiceNumber *string             `gorm:"column:invoice_number"`
	Notes         *string             `gorm:"column:notes"`
	InvoiceDate   *time.Time          `gorm:"column:invoice_date"`
	DueDate       *time.Time          `gorm:"column:due_date"`
	PaymentDate   *time.Time          `gorm:"column:payment_date"`
	PaymentStatus string              `gorm:"column:payment_status;not null;default:pending"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	Project       Project             `gorm:"foreignKey:ProjectID"`
	SalesPerson   *userDatamodel.User `gorm:"foreignKey:SalesPersonID"`
}
