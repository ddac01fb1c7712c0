package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/balajigund/coupon-management-system/internal/domain/coupon"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	catalog := coupon.NewCatalog()
	engine := coupon.NewEngine(catalog, coupon.NewUsageTracker())
	h, err := NewHandler(catalog, engine, noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return h
}

func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

const validCouponBody = `{
	"code": "SAVE10",
	"description": "10% off everything",
	"discountType": "PERCENT",
	"discountValue": 10,
	"startDate": "2000-01-01",
	"endDate": "2099-12-31"
}`

func TestRegisterCoupon(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/coupons", validCouponBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		Coupon  couponResponse `json:"coupon"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Coupon created", resp.Message)
	assert.Equal(t, "SAVE10", resp.Coupon.Code)
	assert.Equal(t, "PERCENT", resp.Coupon.DiscountType)
	assert.InDelta(t, 10, resp.Coupon.DiscountValue, 0.0001)
}

func TestRegisterCouponDuplicate(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/coupons", validCouponBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/coupons", validCouponBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	// The catalog retains only the first registration.
	rec = doRequest(t, h, http.MethodGet, "/coupons", "")
	var list struct {
		Coupons []couponResponse `json:"coupons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Coupons, 1)
}

func TestRegisterCouponValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing code",
			body: `{"description":"d","discountType":"FLAT","discountValue":5,"startDate":"2025-01-01","endDate":"2025-12-31"}`,
			want: "coupon code is required",
		},
		{
			name: "missing description",
			body: `{"code":"X","discountType":"FLAT","discountValue":5,"startDate":"2025-01-01","endDate":"2025-12-31"}`,
			want: "description is required",
		},
		{
			name: "bad discount type",
			body: `{"code":"X","description":"d","discountType":"BOGO","discountValue":5,"startDate":"2025-01-01","endDate":"2025-12-31"}`,
			want: "discountType must be FLAT or PERCENT",
		},
		{
			name: "missing discount value",
			body: `{"code":"X","description":"d","discountType":"FLAT","startDate":"2025-01-01","endDate":"2025-12-31"}`,
			want: "discountValue must be a number",
		},
		{
			name: "missing dates",
			body: `{"code":"X","description":"d","discountType":"FLAT","discountValue":5}`,
			want: "startDate and endDate are required",
		},
		{
			name: "malformed body",
			body: `{`,
			want: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			rec := doRequest(t, h, http.MethodPost, "/coupons", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestListCouponsEmpty(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/coupons", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Coupons []couponResponse `json:"coupons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Coupons)
}

func registerCoupons(t *testing.T, h *Handler, bodies ...string) {
	t.Helper()
	for _, b := range bodies {
		rec := doRequest(t, h, http.MethodPost, "/coupons", b)
		require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	}
}

func TestBestCouponSelectsHighestDiscount(t *testing.T) {
	h := newTestHandler(t)
	registerCoupons(t, h,
		validCouponBody,
		`{"code":"FLAT5","description":"$5 off","discountType":"FLAT","discountValue":5,"startDate":"2000-01-01","endDate":"2099-12-31"}`,
	)

	body := `{"user":{"userId":"u1"},"cart":{"items":[{"quantity":1,"unitPrice":100}]}}`
	rec := doRequest(t, h, http.MethodPost, "/best-coupon", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.BestCoupon)
	assert.Equal(t, "SAVE10", resp.BestCoupon.Code)
	assert.InDelta(t, 10, resp.DiscountAmount, 0.0001)
	assert.InDelta(t, 90, resp.FinalPrice, 0.0001)
}

func TestBestCouponNoEligible(t *testing.T) {
	h := newTestHandler(t)

	body := `{"user":{"userId":"u1"},"cart":{"items":[{"quantity":2,"unitPrice":25}]}}`
	rec := doRequest(t, h, http.MethodPost, "/best-coupon", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.BestCoupon)
	assert.Zero(t, resp.DiscountAmount)
	// finalPrice equals the cart value when nothing applies.
	assert.InDelta(t, 50, resp.FinalPrice, 0.0001)
}

func TestBestCouponMalformedQuantityCoerced(t *testing.T) {
	h := newTestHandler(t)

	// The "bad" quantity coerces to 0, so cartValue = 2*10 = 20.
	body := `{"user":{"userId":"u1"},"cart":{"items":[{"quantity":2,"unitPrice":10},{"quantity":"bad","unitPrice":5}]}}`
	rec := doRequest(t, h, http.MethodPost, "/best-coupon", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.BestCoupon)
	assert.InDelta(t, 20, resp.FinalPrice, 0.0001)
}

func TestBestCouponUsageLimit(t *testing.T) {
	h := newTestHandler(t)
	registerCoupons(t, h,
		`{"code":"ONCE","description":"one per user","discountType":"FLAT","discountValue":5,"startDate":"2000-01-01","endDate":"2099-12-31","usageLimitPerUser":1}`,
	)

	body := `{"user":{"userId":"u1"},"cart":{"items":[{"quantity":1,"unitPrice":100}]}}`

	rec := doRequest(t, h, http.MethodPost, "/best-coupon", body)
	var first bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.NotNil(t, first.BestCoupon)

	// Second request for the same user finds the coupon exhausted.
	rec = doRequest(t, h, http.MethodPost, "/best-coupon", body)
	var second bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Nil(t, second.BestCoupon)
}

func TestBestCouponValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing user",
			body: `{"cart":{"items":[]}}`,
			want: "user with userId is required",
		},
		{
			name: "missing user id",
			body: `{"user":{},"cart":{"items":[]}}`,
			want: "user with userId is required",
		},
		{
			name: "missing cart",
			body: `{"user":{"userId":"u1"}}`,
			want: "cart with items array is required",
		},
		{
			name: "items not an array",
			body: `{"user":{"userId":"u1"},"cart":{"items":"nope"}}`,
			want: "cart with items array is required",
		},
		{
			name: "items explicitly null",
			body: `{"user":{"userId":"u1"},"cart":{"items":null}}`,
			want: "cart with items array is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			rec := doRequest(t, h, http.MethodPost, "/best-coupon", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestBestCouponEligibilityRules(t *testing.T) {
	h := newTestHandler(t)
	registerCoupons(t, h,
		`{"code":"FIRST","description":"new customers","discountType":"PERCENT","discountValue":20,"startDate":"2000-01-01","endDate":"2099-12-31","eligibility":{"firstOrderOnly":true}}`,
	)

	cart := `"cart":{"items":[{"quantity":1,"unitPrice":100}]}`

	rec := doRequest(t, h, http.MethodPost, "/best-coupon", `{"user":{"userId":"new"},`+cart+`}`)
	var newUser bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &newUser))
	require.NotNil(t, newUser.BestCoupon)
	assert.Equal(t, "FIRST", newUser.BestCoupon.Code)

	rec = doRequest(t, h, http.MethodPost, "/best-coupon", `{"user":{"userId":"ret","ordersPlaced":2},`+cart+`}`)
	var returning bestCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returning))
	assert.Nil(t, returning.BestCoupon)
}

func TestStatusEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/coupons", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
