package coupon

// Eligible reports whether the coupon's eligibility rules are satisfied for
// the given user and cart metrics. Every present rule is an independent AND
// condition; evaluation short-circuits on the first violated rule. A coupon
// without rules is eligible for everyone.
func Eligible(c *Coupon, user User, m Metrics) bool {
	r := c.Eligibility
	if r == nil {
		return true
	}

	// User attributes.
	if len(r.AllowedUserTiers) > 0 && !contains(r.AllowedUserTiers, user.Tier) {
		return false
	}
	if r.MinLifetimeSpend != nil && user.LifetimeSpend.LessThan(*r.MinLifetimeSpend) {
		return false
	}
	if r.MinOrdersPlaced != nil && user.OrdersPlaced < *r.MinOrdersPlaced {
		return false
	}
	// OrdersPlaced counts completed orders before this one, so first-order
	// coupons require exactly zero.
	if r.FirstOrderOnly && user.OrdersPlaced > 0 {
		return false
	}
	if len(r.AllowedCountries) > 0 && !contains(r.AllowedCountries, user.Country) {
		return false
	}

	// Cart attributes.
	if r.MinCartValue != nil && m.Value.LessThan(*r.MinCartValue) {
		return false
	}
	if len(r.ApplicableCategories) > 0 && !m.HasAnyCategory(r.ApplicableCategories) {
		return false
	}
	if len(r.ExcludedCategories) > 0 && m.HasAnyCategory(r.ExcludedCategories) {
		return false
	}
	if r.MinItemsCount != nil && m.ItemsCount.LessThan(*r.MinItemsCount) {
		return false
	}

	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
