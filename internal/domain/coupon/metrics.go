package coupon

import "github.com/shopspring/decimal"

// Metrics holds the aggregate values derived from a cart. They are computed
// once per evaluation and shared across all candidate coupons.
type Metrics struct {
	// Value is the sum of quantity * unitPrice across all items.
	Value decimal.Decimal
	// ItemsCount is the sum of quantities across all items.
	ItemsCount decimal.Decimal
	// Categories is the set of distinct non-empty item categories.
	Categories map[string]struct{}
}

// ComputeMetrics derives cart metrics from the given cart. It is pure and
// never fails: an empty cart yields zero value, zero count, and an empty
// category set.
func ComputeMetrics(cart Cart) Metrics {
	m := Metrics{
		Value:      decimal.Zero,
		ItemsCount: decimal.Zero,
		Categories: make(map[string]struct{}, len(cart.Items)),
	}
	for _, item := range cart.Items {
		m.Value = m.Value.Add(item.Quantity.Mul(item.UnitPrice))
		m.ItemsCount = m.ItemsCount.Add(item.Quantity)
		if item.Category != "" {
			m.Categories[item.Category] = struct{}{}
		}
	}
	return m
}

// HasAnyCategory reports whether at least one of the given categories is
// present in the cart.
func (m Metrics) HasAnyCategory(categories []string) bool {
	for _, c := range categories {
		if _, ok := m.Categories[c]; ok {
			return true
		}
	}
	return false
}
