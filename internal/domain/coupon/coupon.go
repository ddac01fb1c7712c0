// Package coupon implements the coupon evaluation engine: the catalog of
// registered coupons, eligibility rules, discount calculation, per-user usage
// tracking, and best-coupon selection.
package coupon

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountFlat applies a fixed monetary discount capped at the cart value.
	DiscountFlat DiscountType = "FLAT"
	// DiscountPercent applies a percentage-based discount to the cart value,
	// optionally capped at MaxDiscountAmount.
	DiscountPercent DiscountType = "PERCENT"
)

// ErrDuplicateCode is returned when registering a coupon whose code already
// exists in the catalog.
var ErrDuplicateCode = errors.New("coupon code already exists")

// Coupon is a registered discount rule. A coupon is immutable once it enters
// the catalog; its code uniquely identifies it.
type Coupon struct {
	Code              string
	Description       string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	StartDate         string
	EndDate           string
	UsageLimitPerUser *int
	Eligibility       *Rules
}

// Rules is an AND-combined set of optional eligibility predicates.
// A nil pointer or empty slice means the corresponding rule imposes no
// constraint; a present-but-zero value is still enforced.
type Rules struct {
	AllowedUserTiers     []string
	MinLifetimeSpend     *decimal.Decimal
	MinOrdersPlaced      *int
	FirstOrderOnly       bool
	AllowedCountries     []string
	MinCartValue         *decimal.Decimal
	ApplicableCategories []string
	ExcludedCategories   []string
	MinItemsCount        *decimal.Decimal
}

// User holds the attributes eligibility rules are evaluated against.
// Missing attributes behave as their zero values.
type User struct {
	ID            string
	Tier          string
	LifetimeSpend decimal.Decimal
	OrdersPlaced  int
	Country       string
}

// Item is a single cart line. Quantity and UnitPrice arrive already coerced
// by the transport layer; malformed input shows up here as zero.
type Item struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Category  string
}

// Cart is an ordered sequence of line items.
type Cart struct {
	Items []Item
}

// dateLayouts are tried in order when parsing coupon validity timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate parses a coupon validity timestamp. It accepts RFC 3339 as well
// as date-only values. The second return value reports whether the input was
// a valid timestamp.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidityWindow parses the coupon's date range. ok is false when either
// bound fails to parse; such a coupon is never selectable.
func (c *Coupon) ValidityWindow() (start, end time.Time, ok bool) {
	start, ok = parseDate(c.StartDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = parseDate(c.EndDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
