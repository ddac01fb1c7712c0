package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/balajigund/coupon-management-system/internal/domain/coupon"
)

// RegisterCoupon handles POST /coupons. Field validation happens here, before
// the catalog is touched: the engine itself never rejects a registered coupon.
func (h *Handler) RegisterCoupon(w http.ResponseWriter, r *http.Request) {
	var req registerCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, ok := validateRegistration(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c := &coupon.Coupon{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      coupon.DiscountType(req.DiscountType),
		DiscountValue:     *req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		UsageLimitPerUser: req.UsageLimitPerUser,
		Eligibility:       req.Eligibility.toDomain(),
	}

	if err := h.catalog.Register(c); err != nil {
		if errors.Is(err, coupon.ErrDuplicateCode) {
			writeError(w, http.StatusConflict, "coupon code already exists")
			return
		}
		zctx.From(r.Context()).Error("register coupon", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.registrations.Add(r.Context(), 1)
	zctx.From(r.Context()).Info("coupon registered",
		zap.String("code", c.Code),
		zap.String("discount_type", string(c.DiscountType)),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Coupon created",
		"coupon":  couponToResponse(c),
	})
}

// validateRegistration checks the transport-level invariants for a new
// coupon. It returns a human-readable message for the first violation found.
func validateRegistration(req registerCouponRequest) (string, bool) {
	switch {
	case req.Code == "":
		return "coupon code is required", false
	case req.Description == "":
		return "description is required", false
	case req.DiscountType != string(coupon.DiscountFlat) && req.DiscountType != string(coupon.DiscountPercent):
		return "discountType must be FLAT or PERCENT", false
	case req.DiscountValue == nil:
		return "discountValue must be a number", false
	case req.StartDate == "" || req.EndDate == "":
		return "startDate and endDate are required", false
	}
	return "", true
}

// ListCoupons handles GET /coupons, returning the full catalog snapshot.
func (h *Handler) ListCoupons(w http.ResponseWriter, _ *http.Request) {
	list := h.catalog.List()
	coupons := make([]couponResponse, len(list))
	for i, c := range list {
		coupons[i] = couponToResponse(c)
	}

	writeJSON(w, http.StatusOK, map[string]any{"coupons": coupons})
}
