package coupon

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ComputeDiscount calculates the monetary discount the coupon yields for the
// given cart value. The result is always clamped to [0, cartValue]: a coupon
// can never produce a negative discount or one exceeding the cart's value.
// Unrecognized discount types yield zero rather than an error.
func ComputeDiscount(c *Coupon, cartValue decimal.Decimal) decimal.Decimal {
	if cartValue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch c.DiscountType {
	case DiscountFlat:
		amount = c.DiscountValue
	case DiscountPercent:
		amount = cartValue.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscountAmount != nil {
			amount = decimal.Min(amount, *c.MaxDiscountAmount)
		}
	default:
		return decimal.Zero
	}

	return clamp(amount, cartValue)
}

// clamp bounds the discount to the range [0, cartValue].
func clamp(amount, cartValue decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(cartValue) {
		return cartValue
	}
	return amount
}
