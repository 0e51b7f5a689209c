package service

import (
	"context"
	"time"

	"makhana-store/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines operations for catalogue browsing.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines operations for managing a user's cart.
type CartService interface {
	// AddToCart adds a product to the user's cart. If a line for the product
	// already exists its quantity is replaced, not incremented.
	AddToCart(ctx context.Context, userID int64, productID string, quantity int) (*model.CartItem, error)

	// UpdateCartItem overwrites the quantity of an existing cart line.
	// A quantity of zero or less removes the line instead; the returned item
	// is nil in that case.
	UpdateCartItem(ctx context.Context, userID int64, productID string, quantity int) (*model.CartItem, error)

	// RemoveFromCart deletes the line for the product. Removing an absent
	// line is a no-op.
	RemoveFromCart(ctx context.Context, userID int64, productID string) error

	// GetCart retrieves the user's cart lines with product details.
	GetCart(ctx context.Context, userID int64) ([]model.CartItem, error)
}

// CouponService defines discount-rule evaluation and coupon administration.
type CouponService interface {
	// GetAll retrieves all coupons.
	GetAll(ctx context.Context) ([]model.Coupon, error)

	// GetActive retrieves coupons currently inside their validity window.
	GetActive(ctx context.Context) ([]model.Coupon, error)

	// GetByCode retrieves a coupon by code, failing with ErrCouponNotFound
	// when the code is unknown.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Create validates and stores a new coupon.
	Create(ctx context.Context, coupon *model.Coupon) error

	// Update validates and overwrites an existing coupon.
	Update(ctx context.Context, id int64, coupon *model.Coupon) error

	// Delete removes a coupon by ID.
	Delete(ctx context.Context, id int64) error

	// Validate reports whether the code can be applied to an order of the
	// given amount. Unknown codes are simply invalid, not errors.
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal, isFirstTimeUser bool) (bool, error)

	// CalculateDiscount returns the discount the code yields for an order of
	// the given amount. Unknown or unusable codes yield zero.
	CalculateDiscount(ctx context.Context, code string, orderAmount decimal.Decimal, isFirstTimeUser bool) (decimal.Decimal, error)
}

// OrderService defines order placement and retrieval.
type OrderService interface {
	// PlaceOrder converts the user's cart into an order, applying the coupon
	// code if one is supplied. The cart snapshot, order creation, coupon
	// redemption and cart drain happen in a single transaction.
	PlaceOrder(ctx context.Context, userID int64, couponCode *string) (*model.Order, error)

	// GetOrdersByUser retrieves the user's orders, newest first.
	GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// GetByID retrieves an order, restricted to its owner unless the caller
	// is an administrator.
	GetByID(ctx context.Context, id uuid.UUID, userID int64, isAdmin bool) (*model.Order, error)
}

// now is the clock used for coupon validity checks; test hooks replace it.
var now = time.Now
