package handler

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/balajigund/coupon-management-system/internal/domain/coupon"
)

// looseNumber decodes any JSON value as a decimal, coercing non-numeric
// input (strings, booleans, objects, null) to zero instead of failing the
// whole request. Quoted numeric strings still parse.
type looseNumber struct {
	decimal.Decimal
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		n.Decimal = decimal.Zero
		return nil
	}
	n.Decimal = d
	return nil
}

type registerCouponRequest struct {
	Code              string              `json:"code"`
	Description       string              `json:"description"`
	DiscountType      string              `json:"discountType"`
	DiscountValue     *decimal.Decimal    `json:"discountValue"`
	MaxDiscountAmount *decimal.Decimal    `json:"maxDiscountAmount"`
	StartDate         string              `json:"startDate"`
	EndDate           string              `json:"endDate"`
	UsageLimitPerUser *int                `json:"usageLimitPerUser"`
	Eligibility       *eligibilityPayload `json:"eligibility"`
}

type eligibilityPayload struct {
	AllowedUserTiers     []string         `json:"allowedUserTiers,omitempty"`
	MinLifetimeSpend     *decimal.Decimal `json:"minLifetimeSpend,omitempty"`
	MinOrdersPlaced      *int             `json:"minOrdersPlaced,omitempty"`
	FirstOrderOnly       bool             `json:"firstOrderOnly,omitempty"`
	AllowedCountries     []string         `json:"allowedCountries,omitempty"`
	MinCartValue         *decimal.Decimal `json:"minCartValue,omitempty"`
	ApplicableCategories []string         `json:"applicableCategories,omitempty"`
	ExcludedCategories   []string         `json:"excludedCategories,omitempty"`
	MinItemsCount        *decimal.Decimal `json:"minItemsCount,omitempty"`
}

func (e *eligibilityPayload) toDomain() *coupon.Rules {
	if e == nil {
		return nil
	}
	return &coupon.Rules{
		AllowedUserTiers:     e.AllowedUserTiers,
		MinLifetimeSpend:     e.MinLifetimeSpend,
		MinOrdersPlaced:      e.MinOrdersPlaced,
		FirstOrderOnly:       e.FirstOrderOnly,
		AllowedCountries:     e.AllowedCountries,
		MinCartValue:         e.MinCartValue,
		ApplicableCategories: e.ApplicableCategories,
		ExcludedCategories:   e.ExcludedCategories,
		MinItemsCount:        e.MinItemsCount,
	}
}

func eligibilityFromDomain(r *coupon.Rules) *eligibilityPayload {
	if r == nil {
		return nil
	}
	return &eligibilityPayload{
		AllowedUserTiers:     r.AllowedUserTiers,
		MinLifetimeSpend:     r.MinLifetimeSpend,
		MinOrdersPlaced:      r.MinOrdersPlaced,
		FirstOrderOnly:       r.FirstOrderOnly,
		AllowedCountries:     r.AllowedCountries,
		MinCartValue:         r.MinCartValue,
		ApplicableCategories: r.ApplicableCategories,
		ExcludedCategories:   r.ExcludedCategories,
		MinItemsCount:        r.MinItemsCount,
	}
}

type couponResponse struct {
	Code              string              `json:"code"`
	Description       string              `json:"description"`
	DiscountType      string              `json:"discountType"`
	DiscountValue     float64             `json:"discountValue"`
	MaxDiscountAmount *float64            `json:"maxDiscountAmount,omitempty"`
	StartDate         string              `json:"startDate"`
	EndDate           string              `json:"endDate"`
	UsageLimitPerUser *int                `json:"usageLimitPerUser,omitempty"`
	Eligibility       *eligibilityPayload `json:"eligibility,omitempty"`
}

func couponToResponse(c *coupon.Coupon) couponResponse {
	resp := couponResponse{
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      string(c.DiscountType),
		DiscountValue:     c.DiscountValue.InexactFloat64(),
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		UsageLimitPerUser: c.UsageLimitPerUser,
		Eligibility:       eligibilityFromDomain(c.Eligibility),
	}
	if c.MaxDiscountAmount != nil {
		v := c.MaxDiscountAmount.InexactFloat64()
		resp.MaxDiscountAmount = &v
	}
	return resp
}

type userPayload struct {
	UserID        string      `json:"userId"`
	UserTier      string      `json:"userTier"`
	LifetimeSpend looseNumber `json:"lifetimeSpend"`
	OrdersPlaced  looseNumber `json:"ordersPlaced"`
	Country       string      `json:"country"`
}

func (u *userPayload) toDomain() coupon.User {
	return coupon.User{
		ID:            u.UserID,
		Tier:          u.UserTier,
		LifetimeSpend: u.LifetimeSpend.Decimal,
		OrdersPlaced:  int(u.OrdersPlaced.IntPart()),
		Country:       u.Country,
	}
}

type cartPayload struct {
	Items json.RawMessage `json:"items"`
}

type cartItemPayload struct {
	Quantity  looseNumber `json:"quantity"`
	UnitPrice looseNumber `json:"unitPrice"`
	Category  string      `json:"category"`
}

// decodeCartItems parses the raw items array tolerantly: a line item that is
// not a JSON object degrades to an all-zero item rather than rejecting the
// request. Returns false when items is not a JSON array at all.
func decodeCartItems(raw json.RawMessage) ([]coupon.Item, bool) {
	// Unmarshal accepts a JSON null into a nil slice; only an actual array
	// counts as items here.
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}

	items := make([]coupon.Item, len(elements))
	for i, el := range elements {
		var p cartItemPayload
		if err := json.Unmarshal(el, &p); err != nil {
			items[i] = coupon.Item{Quantity: decimal.Zero, UnitPrice: decimal.Zero}
			continue
		}
		items[i] = coupon.Item{
			Quantity:  p.Quantity.Decimal,
			UnitPrice: p.UnitPrice.Decimal,
			Category:  p.Category,
		}
	}
	return items, true
}

type bestCouponRequest struct {
	User *userPayload `json:"user"`
	Cart *cartPayload `json:"cart"`
}

type bestCouponResponse struct {
	BestCoupon     *couponResponse `json:"bestCoupon"`
	DiscountAmount float64         `json:"discountAmount"`
	FinalPrice     float64         `json:"finalPrice"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
