package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"makhana-store/internal/middleware"
	"makhana-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddToCart(ctx context.Context, userID int64, productID string, quantity int) (*model.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartService) UpdateCartItem(ctx context.Context, userID int64, productID string, quantity int) (*model.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveFromCart(ctx context.Context, userID int64, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) GetCart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

// authedRequest builds a request carrying an authenticated user, the way the
// auth middleware would hand it to a handler.
func authedRequest(method, url string, body string, user *model.User) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	if user != nil {
		req = req.WithContext(middleware.ContextWithUser(req.Context(), user))
	}
	return req
}

func TestCartHandler_Get(t *testing.T) {
	logger := zerolog.Nop()
	user := &model.User{ID: 7, Email: "priya@example.com"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		items := []model.CartItem{
			{UserID: 7, ProductID: "MAKHANA-001", Quantity: 2, Product: sampleProduct("MAKHANA-001")},
		}
		mockService.On("GetCart", mock.Anything, int64(7)).Return(items, nil)

		rec := httptest.NewRecorder()
		handler.Get(rec, authedRequest(http.MethodGet, "/api/cart", "", user))

		assert.Equal(t, http.StatusOK, rec.Code)
		var result []model.CartItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Len(t, result, 1)
		mockService.AssertExpectations(t)
	})

	t.Run("Empty cart yields empty array", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("GetCart", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

		rec := httptest.NewRecorder()
		handler.Get(rec, authedRequest(http.MethodGet, "/api/cart", "", user))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("No authenticated user", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.Get(rec, authedRequest(http.MethodGet, "/api/cart", "", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "GetCart")
	})
}

func TestCartHandler_Add(t *testing.T) {
	logger := zerolog.Nop()
	user := &model.User{ID: 7}

	tests := []struct {
		name           string
		body           string
		mockItem       *model.CartItem
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"productId": "MAKHANA-001", "quantity": 2}`,
			mockItem:       &model.CartItem{UserID: 7, ProductID: "MAKHANA-001", Quantity: 2},
			expectService:  true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Missing product ID",
			body:           `{"quantity": 2}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
		},
		{
			name:           "Zero quantity rejected by service",
			body:           `{"productId": "MAKHANA-001", "quantity": 0}`,
			mockError:      model.ErrInvalidQuantity,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidQuantity,
		},
		{
			name:           "Unknown product",
			body:           `{"productId": "MAKHANA-999", "quantity": 1}`,
			mockError:      model.ErrProductNotFound,
			expectService:  true,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			handler := NewCartHandler(mockService, logger)

			if tt.expectService {
				mockService.On("AddToCart", mock.Anything, int64(7), mock.AnythingOfType("string"), mock.AnythingOfType("int")).
					Return(tt.mockItem, tt.mockError)
			}

			rec := httptest.NewRecorder()
			handler.Add(rec, authedRequest(http.MethodPost, "/api/cart", tt.body, user))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var errResp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedCode, errResp.Error)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCartHandler_Update(t *testing.T) {
	logger := zerolog.Nop()
	user := &model.User{ID: 7}

	t.Run("Quantity replaced", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("UpdateCartItem", mock.Anything, int64(7), "MAKHANA-001", 5).
			Return(&model.CartItem{UserID: 7, ProductID: "MAKHANA-001", Quantity: 5}, nil)

		rec := httptest.NewRecorder()
		handler.Update(rec, authedRequest(http.MethodPut, "/api/cart", `{"productId": "MAKHANA-001", "quantity": 5}`, user))

		assert.Equal(t, http.StatusOK, rec.Code)
		var item model.CartItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, 5, item.Quantity)
	})

	t.Run("Zero quantity removes the line", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("UpdateCartItem", mock.Anything, int64(7), "MAKHANA-001", 0).Return(nil, nil)

		rec := httptest.NewRecorder()
		handler.Update(rec, authedRequest(http.MethodPut, "/api/cart", `{"productId": "MAKHANA-001", "quantity": 0}`, user))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Line absent", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("UpdateCartItem", mock.Anything, int64(7), "MAKHANA-001", 3).
			Return(nil, model.ErrCartItemNotFound)

		rec := httptest.NewRecorder()
		handler.Update(rec, authedRequest(http.MethodPut, "/api/cart", `{"productId": "MAKHANA-001", "quantity": 3}`, user))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartHandler_Remove(t *testing.T) {
	logger := zerolog.Nop()
	user := &model.User{ID: 7}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("RemoveFromCart", mock.Anything, int64(7), "MAKHANA-001").Return(nil)

		rec := httptest.NewRecorder()
		handler.Remove(rec, authedRequest(http.MethodDelete, "/api/cart/MAKHANA-001", "", user))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing product ID", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.Remove(rec, authedRequest(http.MethodDelete, "/api/cart/", "", user))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "RemoveFromCart")
	})
}
