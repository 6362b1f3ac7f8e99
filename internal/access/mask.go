package access

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Redacted is the placeholder that replaces hidden fields.
const Redacted = "***"

// amountSuffix is appended to rounded amounts so readers can tell they are not exact.
const amountSuffix = "**"

type amountRule int

const (
	amountExact amountRule = iota
	amountRounded
	amountBucket
	amountStatus
)

type maskPolicy struct {
	amount   amountRule
	unit     int64
	redacted []Field
}

// Each redaction set extends the one of the next more privileged role.
var (
	managerRedacted = []Field{FieldTaxAmount, FieldInvoiceNumber, FieldNotes}
	memberRedacted  = extend(managerRedacted, FieldNetAmount, FieldDueDate)
	partnerRedacted = extend(memberRedacted, FieldDueDate, FieldPaymentDate)
	clientRedacted  = extend(partnerRedacted, FieldInvoiceDate)
)

var maskPolicies = map[Role]maskPolicy{
	RoleSuperAdmin:    {amount: amountExact},
	RoleAdmin:         {amount: amountExact},
	RoleMiddleManager: {amount: amountRounded, unit: 100, redacted: managerRedacted},
	RoleTeamMember:    {amount: amountRounded, unit: 1000, redacted: memberRedacted},
	RolePartner:       {amount: amountBucket, redacted: partnerRedacted},
	RoleClient:        {amount: amountStatus, redacted: clientRedacted},
}

// strictest applies to roles without a policy of their own.
var strictest = maskPolicies[RoleClient]

func extend(base []Field, more ...Field) []Field {
	out := make([]Field, 0, len(base)+len(more))
	out = append(out, base...)
	for _, f := range more {
		if !containsField(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func containsField(fields []Field, f Field) bool {
	for _, existing := range fields {
		if existing == f {
			return true
		}
	}
	return false
}

func policyFor(role Role) maskPolicy {
	if p, ok := maskPolicies[role]; ok {
		return p
	}
	return strictest
}

// RedactedFields returns the fields role never sees in clear. The amount field is handled separately.
func RedactedFields(role Role) []Field {
	return append([]Field(nil), policyFor(role).redacted...)
}

// Masker degrades revenue views according to the viewer's role. It is safe for concurrent use.
type Masker struct {
	locale  language.Tag
	printer *message.Printer
}

func NewMasker(locale language.Tag) *Masker {
	return &Masker{locale: locale, printer: newPrinter(locale)}
}

func (m *Masker) Locale() language.Tag {
	return m.locale
}

// Mask returns a copy of view with role's policy applied. IsMasked is set when anything was changed.
// Fields absent from view are skipped and view itself is left untouched.
func (m *Masker) Mask(view RevenueView, role Role) RevenueView {
	policy := policyFor(role)
	out := view
	if policy.amount == amountExact {
		return out
	}

	applied := false
	if view.Amount != nil {
		if masked, changed := m.maskAmount(policy, view.Amount); changed {
			out.Amount = masked
			applied = true
		}
	}

	for _, f := range policy.redacted {
		slot := out.slot(f)
		if slot == nil || *slot == nil {
			continue
		}
		*slot = Text(Redacted)
		applied = true
	}

	out.IsMasked = view.IsMasked || applied
	return out
}

// MaskAll masks every view. The input slice is not modified.
func (m *Masker) MaskAll(views []RevenueView, role Role) []RevenueView {
	out := make([]RevenueView, len(views))
	for i, v := range views {
		out[i] = m.Mask(v, role)
	}
	return out
}

// MaskAmount applies role's amount rule to a bare figure such as a dashboard total.
func (m *Masker) MaskAmount(role Role, amount int64) *Value {
	masked, _ := m.maskAmount(policyFor(role), Number(amount))
	return masked
}

func (m *Masker) maskAmount(policy maskPolicy, v *Value) (*Value, bool) {
	switch policy.amount {
	case amountRounded:
		n, ok := v.Int()
		if !ok {
			return v, false
		}
		return Text(m.printer.Sprintf("%d", floorTo(n, policy.unit)) + amountSuffix), true
	case amountBucket:
		n, ok := v.Int()
		if !ok {
			return v, false
		}
		return Text(m.printer.Sprintf(bucketKey(n))), true
	case amountStatus:
		return Text(m.printer.Sprintf(keyProjectStatus)), true
	}
	return v, false
}

func floorTo(n, unit int64) int64 {
	if unit <= 1 {
		return n
	}
	r := n % unit
	if r < 0 {
		r += unit
	}
	return n - r
}

var bucketBounds = []struct {
	upper int64
	key   string
}{
	{1_000_000, keyBucketUnder1M},
	{5_000_000, keyBucket1Mto5M},
	{10_000_000, keyBucket5Mto10M},
	{50_000_000, keyBucket10Mto50M},
	{100_000_000, keyBucket50Mto100M},
}

// bucketKey places n in a half-open range [lower, upper); a value equal to a bound belongs to the higher
// bucket.
func bucketKey(n int64) string {
	for _, b := range bucketBounds {
		if n < b.upper {
			return b.key
		}
	}
	return keyBucketOver100M
}

// BucketLabel returns the localized range label for n.
func (m *Masker) BucketLabel(n int64) string {
	return m.printer.Sprintf(bucketKey(n))
}
