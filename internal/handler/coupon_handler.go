package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"makhana-store/internal/model"
	"makhana-store/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CouponHandler handles coupon-related HTTP requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// List handles GET /api/coupons requests.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if coupons == nil {
		coupons = []model.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

// ListActive handles GET /api/coupons/active requests.
func (h *CouponHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.GetActive(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if coupons == nil {
		coupons = []model.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

// GetByCode handles GET /api/coupons/code/{code} requests.
func (h *CouponHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/api/coupons/code/")
	if code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "coupon code is required", h.logger)
		return
	}

	coupon, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupon)
}

// Create handles POST /api/coupons requests.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var coupon model.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.Create(r.Context(), &coupon); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, coupon)
}

// Update handles PUT /api/coupons/{id} requests.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	var coupon model.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.Update(r.Context(), id, &coupon); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupon)
}

// Delete handles DELETE /api/coupons/{id} requests.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// couponValidationResponse is the payload for the advisory validate endpoint.
type couponValidationResponse struct {
	Valid bool `json:"valid"`
}

// couponDiscountResponse is the payload for the advisory calculate endpoint.
type couponDiscountResponse struct {
	Discount decimal.Decimal `json:"discount"`
}

// Validate handles GET /api/coupons/validate requests. It is advisory: the
// storefront calls it before checkout, but placement re-validates.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	code, amount, firstTime, ok := h.validationParams(w, r)
	if !ok {
		return
	}

	valid, err := h.service.Validate(r.Context(), code, amount, firstTime)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, couponValidationResponse{Valid: valid})
}

// Calculate handles GET /api/coupons/calculate requests.
func (h *CouponHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	code, amount, firstTime, ok := h.validationParams(w, r)
	if !ok {
		return
	}

	discount, err := h.service.CalculateDiscount(r.Context(), code, amount, firstTime)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, couponDiscountResponse{Discount: discount})
}

// couponID extracts the {id} path segment for admin mutation routes.
func (h *CouponHandler) couponID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/coupons/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid coupon ID", h.logger)
		return 0, false
	}
	return id, true
}

// validationParams parses the query parameters shared by the validate and
// calculate endpoints.
func (h *CouponHandler) validationParams(w http.ResponseWriter, r *http.Request) (string, decimal.Decimal, bool, bool) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "code is required", h.logger)
		return "", decimal.Zero, false, false
	}

	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil || amount.IsNegative() {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "amount must be a non-negative number", h.logger)
		return "", decimal.Zero, false, false
	}

	firstTime := false
	if v := query.Get("firstTimeUser"); v != "" {
		firstTime, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "firstTimeUser must be a boolean", h.logger)
			return "", decimal.Zero, false, false
		}
	}

	return code, amount, firstTime, true
}
