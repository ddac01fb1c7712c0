package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a coupon that survived all selection filters together with the
// discount it yields for the current cart.
type Candidate struct {
	Coupon   *Coupon
	Discount decimal.Decimal
	EndsAt   time.Time
}

// Better reports whether candidate a beats candidate b under the selection
// ordering: higher discount wins; on a tie the earlier end date wins; on a
// further tie the lexicographically smaller code wins. When all three are
// equal it returns false, which keeps the earlier-encountered candidate
// during a catalog scan.
func Better(a, b Candidate) bool {
	if !a.Discount.Equal(b.Discount) {
		return a.Discount.GreaterThan(b.Discount)
	}
	if !a.EndsAt.Equal(b.EndsAt) {
		return a.EndsAt.Before(b.EndsAt)
	}
	return a.Coupon.Code < b.Coupon.Code
}

// Result is the outcome of a best-coupon evaluation. Best is nil when no
// coupon is applicable; Discount is then zero and FinalPrice equals CartValue.
type Result struct {
	Best       *Coupon
	Discount   decimal.Decimal
	FinalPrice decimal.Decimal
	CartValue  decimal.Decimal
}

// Engine selects the single best applicable coupon for a user and cart. It is
// stateless across requests except through the injected catalog and usage
// tracker.
type Engine struct {
	catalog *Catalog
	usage   *UsageTracker
	now     func() time.Time
}

// NewEngine creates an Engine over the given catalog and usage tracker.
func NewEngine(catalog *Catalog, usage *UsageTracker) *Engine {
	return &Engine{
		catalog: catalog,
		usage:   usage,
		now:     time.Now,
	}
}

// EvaluateBest scans the catalog in registration order, filters coupons by
// date validity, per-user usage limit, and eligibility, computes each
// survivor's discount, and folds the candidates with Better. On a non-nil
// best it records exactly one usage for the requesting user. A scan with no
// candidates performs no mutation and reports the cart value unchanged.
func (e *Engine) EvaluateBest(user User, cart Cart) Result {
	now := e.now()
	metrics := ComputeMetrics(cart)

	var best *Candidate
	for _, c := range e.catalog.List() {
		start, end, ok := c.ValidityWindow()
		if !ok || now.Before(start) || now.After(end) {
			continue
		}
		if !e.usage.UnderLimit(c, user.ID) {
			continue
		}
		if !Eligible(c, user, metrics) {
			continue
		}

		cand := Candidate{
			Coupon:   c,
			Discount: ComputeDiscount(c, metrics.Value),
			EndsAt:   end,
		}
		if best == nil || Better(cand, *best) {
			best = &cand
		}
	}

	if best == nil {
		return Result{
			Discount:   decimal.Zero,
			FinalPrice: metrics.Value,
			CartValue:  metrics.Value,
		}
	}

	e.usage.Record(best.Coupon.Code, user.ID)

	return Result{
		Best:       best.Coupon,
		Discount:   best.Discount,
		FinalPrice: metrics.Value.Sub(best.Discount),
		CartValue:  metrics.Value,
	}
}
