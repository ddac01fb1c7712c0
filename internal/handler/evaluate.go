package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/balajigund/coupon-management-system/internal/domain/coupon"
)

// BestCoupon handles POST /best-coupon. It validates the request envelope,
// runs a single engine evaluation, and reports either the selected coupon or
// an explicit empty result with the untouched cart value.
func (h *Handler) BestCoupon(w http.ResponseWriter, r *http.Request) {
	var req bestCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.User == nil || req.User.UserID == "" {
		writeError(w, http.StatusBadRequest, "user with userId is required")
		return
	}
	if req.Cart == nil || req.Cart.Items == nil {
		writeError(w, http.StatusBadRequest, "cart with items array is required")
		return
	}
	items, ok := decodeCartItems(req.Cart.Items)
	if !ok {
		writeError(w, http.StatusBadRequest, "cart with items array is required")
		return
	}

	res := h.engine.EvaluateBest(req.User.toDomain(), coupon.Cart{Items: items})
	h.evaluations.Add(r.Context(), 1,
		metric.WithAttributes(attribute.Bool("selected", res.Best != nil)))

	resp := bestCouponResponse{
		DiscountAmount: res.Discount.Round(2).InexactFloat64(),
		FinalPrice:     res.FinalPrice.Round(2).InexactFloat64(),
	}
	if res.Best != nil {
		best := couponToResponse(res.Best)
		resp.BestCoupon = &best

		zctx.From(r.Context()).Info("coupon selected",
			zap.String("code", res.Best.Code),
			zap.String("user_id", req.User.UserID),
			zap.Float64("discount", resp.DiscountAmount),
		)
	}

	writeJSON(w, http.StatusOK, resp)
}
