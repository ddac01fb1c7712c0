// Package handler exposes the coupon engine over HTTP. It owns request
// decoding, input validation, and the mapping of engine outcomes to status
// codes; all business decisions live in the domain packages.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/balajigund/coupon-management-system/internal/domain/coupon"
)

// Handler implements the coupon service HTTP API.
type Handler struct {
	catalog *coupon.Catalog
	engine  *coupon.Engine

	registrations metric.Int64Counter
	evaluations   metric.Int64Counter
}

// NewHandler constructs a Handler over the given catalog and selection engine.
// Counters are registered on the provided meter.
func NewHandler(catalog *coupon.Catalog, engine *coupon.Engine, meter metric.Meter) (*Handler, error) {
	registrations, err := meter.Int64Counter("coupon.registrations",
		metric.WithDescription("Coupons registered in the catalog"))
	if err != nil {
		return nil, errors.Wrap(err, "registrations counter")
	}
	evaluations, err := meter.Int64Counter("coupon.evaluations",
		metric.WithDescription("Best-coupon evaluation requests"))
	if err != nil {
		return nil, errors.Wrap(err, "evaluations counter")
	}
	return &Handler{
		catalog:       catalog,
		engine:        engine,
		registrations: registrations,
		evaluations:   evaluations,
	}, nil
}

// Routes builds the service router.
func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", h.Status)
	r.Post("/coupons", h.RegisterCoupon)
	r.Get("/coupons", h.ListCoupons)
	r.Post("/best-coupon", h.BestCoupon)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Status reports that the service is up.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "coupon management API is running",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}
