package access

import (
	"encoding/json"
	"strconv"
	"time"
)

// Field names a maskable key of a revenue view.
type Field string

const (
	FieldAmount        Field = "amount"
	FieldNetAmount     Field = "net_amount"
	FieldTaxAmount     Field = "tax_amount"
	FieldInvoiceNumber Field = "invoice_number"
	FieldNotes         Field = "notes"
	FieldInvoiceDate   Field = "invoice_date"
	FieldDueDate       Field = "due_date"
	FieldPaymentDate   Field = "payment_date"
)

const dateLayout = "2006-01-02"

type valueKind int

const (
	kindNumber valueKind = iota
	kindText
	kindDate
)

// Value is a serialized field value: a whole currency amount, a piece of text or a calendar date.
// Values are never modified after construction.
type Value struct {
	kind valueKind
	num  int64
	text string
	date time.Time
}

func Number(n int64) *Value {
	return &Value{kind: kindNumber, num: n}
}

func Text(s string) *Value {
	return &Value{kind: kindText, text: s}
}

func Date(t time.Time) *Value {
	y, m, d := t.Date()
	return &Value{kind: kindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// OptionalText returns nil for nil or empty input.
func OptionalText(s *string) *Value {
	if s == nil || *s == "" {
		return nil
	}
	return Text(*s)
}

// OptionalDate returns nil for nil input.
func OptionalDate(t *time.Time) *Value {
	if t == nil {
		return nil
	}
	return Date(*t)
}

// Int returns the numeric value, if v holds a number.
func (v *Value) Int() (int64, bool) {
	if v == nil || v.kind != kindNumber {
		return 0, false
	}
	return v.num, true
}

// IsText reports whether v holds text, which is also what masked values become.
func (v *Value) IsText() bool {
	return v != nil && v.kind == kindText
}

func (v *Value) String() string {
	if v == nil {
		return ""
	}
	switch v.kind {
	case kindNumber:
		return strconv.FormatInt(v.num, 10)
	case kindDate:
		return v.date.Format(dateLayout)
	default:
		return v.text
	}
}

func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case kindNumber:
		return v.num == other.num
	case kindDate:
		return v.date.Equal(other.date)
	default:
		return v.text == other.text
	}
}

func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	if v.kind == kindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.String())
}

// RevenueView is the serialized, role-specific projection of a revenue record. A nil field means the key
// is absent from the record.
type RevenueView struct {
	ID            int64  `json:"id"`
	ProjectID     int64  `json:"project_id"`
	ProjectName   string `json:"project_name,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	SalesPerson   string `json:"sales_person,omitempty"`
	PaymentStatus string `json:"payment_status"`
	Amount        *Value `json:"amount,omitempty"`
	NetAmount     *Value `json:"net_amount,omitempty"`
	TaxAmount     *Value `json:"tax_amount,omitempty"`
	InvoiceNumber *Value `json:"invoice_number,omitempty"`
	Notes         *Value `json:"notes,omitempty"`
	InvoiceDate   *Value `json:"invoice_date,omitempty"`
	DueDate       *Value `json:"due_date,omitempty"`
	PaymentDate   *Value `json:"payment_date,omitempty"`
	IsMasked      bool   `json:"is_masked"`
}

// Get returns the value stored under f, or nil when absent.
func (v *RevenueView) Get(f Field) *Value {
	if slot := v.slot(f); slot != nil {
		return *slot
	}
	return nil
}

func (v *RevenueView) slot(f Field) **Value {
	switch f {
	case FieldAmount:
		return &v.Amount
	case FieldNetAmount:
		return &v.NetAmount
	case FieldTaxAmount:
		return &v.TaxAmount
	case FieldInvoiceNumber:
		return &v.InvoiceNumber
	case FieldNotes:
		return &v.Notes
	case FieldInvoiceDate:
		return &v.InvoiceDate
	case FieldDueDate:
		return &v.DueDate
	case FieldPaymentDate:
		return &v.PaymentDate
	}
	return nil
}
