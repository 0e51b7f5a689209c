package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"makhana-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponService is a mock implementation of service.CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) GetAll(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coupon), args.Error(1)
}

func (m *MockCouponService) GetActive(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coupon), args.Error(1)
}

func (m *MockCouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) Create(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponService) Update(ctx context.Context, id int64, coupon *model.Coupon) error {
	args := m.Called(ctx, id, coupon)
	return args.Error(0)
}

func (m *MockCouponService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal, isFirstTimeUser bool) (bool, error) {
	args := m.Called(ctx, code, orderAmount, isFirstTimeUser)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponService) CalculateDiscount(ctx context.Context, code string, orderAmount decimal.Decimal, isFirstTimeUser bool) (decimal.Decimal, error) {
	args := m.Called(ctx, code, orderAmount, isFirstTimeUser)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func sampleCoupon(code string) *model.Coupon {
	return &model.Coupon{
		ID:            1,
		Code:          code,
		DiscountType:  model.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	}
}

func TestCouponHandler_Validate(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		url            string
		mockValid      bool
		expectService  bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Valid coupon",
			url:            "/api/coupons/validate?code=SAVE10&amount=877.00",
			mockValid:      true,
			expectService:  true,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"valid":true}`,
		},
		{
			name:           "Invalid coupon",
			url:            "/api/coupons/validate?code=NOPE&amount=877.00",
			expectService:  true,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"valid":false}`,
		},
		{
			name:           "First-time flag passed through",
			url:            "/api/coupons/validate?code=WELCOME&amount=877.00&firstTimeUser=true",
			mockValid:      true,
			expectService:  true,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"valid":true}`,
		},
		{
			name:           "Missing code",
			url:            "/api/coupons/validate?amount=877.00",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed amount",
			url:            "/api/coupons/validate?code=SAVE10&amount=lots",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative amount",
			url:            "/api/coupons/validate?code=SAVE10&amount=-5",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCouponService)
			handler := NewCouponHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Validate", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("bool")).
					Return(tt.mockValid, nil)
			}

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			handler.Validate(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCouponHandler_Calculate(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockCouponService)
	handler := NewCouponHandler(mockService, logger)

	mockService.On("CalculateDiscount", mock.Anything, "SAVE10", mock.Anything, false).
		Return(decimal.RequireFromString("87.70"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/coupons/calculate?code=SAVE10&amount=877.00", nil)
	rec := httptest.NewRecorder()

	handler.Calculate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"discount":"87.7"}`, rec.Body.String())
	mockService.AssertExpectations(t)
}

func TestCouponHandler_GetByCode(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCouponService)
		handler := NewCouponHandler(mockService, logger)

		mockService.On("GetByCode", mock.Anything, "SAVE10").Return(sampleCoupon("SAVE10"), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/coupons/code/SAVE10", nil)
		rec := httptest.NewRecorder()

		handler.GetByCode(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var coupon model.Coupon
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coupon))
		assert.Equal(t, "SAVE10", coupon.Code)
	})

	t.Run("Unknown code", func(t *testing.T) {
		mockService := new(MockCouponService)
		handler := NewCouponHandler(mockService, logger)

		mockService.On("GetByCode", mock.Anything, "NOPE").Return(nil, model.ErrCouponNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/coupons/code/NOPE", nil)
		rec := httptest.NewRecorder()

		handler.GetByCode(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCouponHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCouponService)
		handler := NewCouponHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.Coupon")).Return(nil)

		body := `{"code": "NEW10", "discountType": "PERCENTAGE", "discountValue": "10", "startDate": "2026-01-01T00:00:00Z", "endDate": "2027-01-01T00:00:00Z", "active": true}`
		req := authedRequest(http.MethodPost, "/api/coupons", body, &model.User{ID: 1, IsAdmin: true})
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Validation failure", func(t *testing.T) {
		mockService := new(MockCouponService)
		handler := NewCouponHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.Coupon")).
			Return(model.NewDomainError(model.ErrCodeMissingField, "Coupon code is required"))

		req := authedRequest(http.MethodPost, "/api/coupons", `{"discountType": "PERCENTAGE"}`, &model.User{ID: 1, IsAdmin: true})
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCouponHandler_Delete(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCouponService)
		handler := NewCouponHandler(mockService, logger)

		mockService.On("Delete", mock.Anything, int64(3)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/coupons/3", nil)
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		mockService := new(MockCouponService)
		handler := NewCouponHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodDelete, "/api/coupons/abc", nil)
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Delete")
	})
}
