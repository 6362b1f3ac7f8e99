package revenue

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	errors "github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/core/common/validation"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListQuery filters and pages revenue queries. To is inclusive.
type ListQuery struct {
	Limit         int
	Offset        int
	PaymentStatus string
	From          *time.Time
	To            *time.Time
}

// ParseListQuery reads limit, offset, payment_status, from and to from the query string.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{
		Limit:         DefaultLimit,
		PaymentStatus: values.Get("payment_status"),
	}
	v := validation.NewValidator()

	limit, limitErr := parseInt("limit", values.Get("limit"), DefaultLimit)
	offset, offsetErr := parseInt("offset", values.Get("offset"), 0)
	from, fromErr := validation.ParseDate("from", values.Get("from"))
	to, toErr := validation.ParseDate("to", values.Get("to"))

	v.Field("limit", limit).
		Custom(failed(limitErr)).
		MinInt(1, errors.ErrCodeInvalidQuery).
		MaxInt(MaxLimit, errors.ErrCodeInvalidQuery)
	v.Field("offset", offset).
		Custom(failed(offsetErr)).
		MinInt(0, errors.ErrCodeInvalidQuery)
	v.Field("payment_status", q.PaymentStatus).OneOf(errors.ErrCodeInvalidStatus, PaymentStatuses...)
	v.Field("from", from).Custom(failed(fromErr))
	v.Field("to", to).
		Custom(failed(toErr)).
		NotBefore(from, "from")

	if appErr := v.Validate(); appErr != nil {
		return ListQuery{}, appErr
	}

	q.Limit = int(limit)
	q.Offset = int(offset)
	q.From = from
	q.To = to
	return q, nil
}

// failed reports a parse error found before the field could be validated.
func failed(parseErr *errors.AppError) validation.ValidatorFunc {
	return func(interface{}) *errors.AppError {
		return parseErr
	}
}

func parseInt(field, raw string, fallback int64) (int64, *errors.AppError) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback, errors.NewValidationFieldError(field, fmt.Sprintf("%s must be an integer", field), errors.ErrCodeInvalidQuery)
	}
	return n, nil
}

type ListResponse struct {
	Revenues []access.RevenueView `json:"revenues"`
	Total    int64                `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	Role     access.Role          `json:"role"`
}

type StatusSummary struct {
	PaymentStatus string        `json:"payment_status"`
	Count         int64         `json:"count"`
	Amount        *access.Value `json:"amount"`
}

// SummaryResponse is the dashboard view. Amounts are masked with the caller's amount rule.
type SummaryResponse struct {
	Role     access.Role     `json:"role"`
	Count    int64           `json:"count"`
	Total    *access.Value   `json:"total"`
	ByStatus []StatusSummary `json:"by_status"`
	IsMasked bool            `json:"is_masked"`
}
