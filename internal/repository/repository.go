package repository

import (
	"context"
	"time"

	"makhana-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByToken retrieves the user owning the given API token.
	GetByToken(ctx context.Context, token string) (*model.User, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartRepository defines the interface for cart line data access operations.
type CartRepository interface {
	// Upsert inserts a cart line or, when one already exists for the
	// (user, product) pair, replaces its quantity.
	Upsert(ctx context.Context, item *model.CartItem) (*model.CartItem, error)

	// UpdateQuantity overwrites the quantity of an existing line.
	// It reports false when no line exists for the pair.
	UpdateQuantity(ctx context.Context, userID int64, productID string, quantity int) (bool, error)

	// Remove deletes the line for the (user, product) pair if present.
	Remove(ctx context.Context, userID int64, productID string) error

	// ListByUser retrieves all cart lines for the user with their products
	// populated, in insertion order.
	ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error)

	// SnapshotForOrder reads the user's full cart within the provided
	// transaction, producing the consistent set of lines an order is built
	// from.
	SnapshotForOrder(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartItem, error)

	// Drain deletes all of the user's cart lines within the provided
	// transaction.
	Drain(ctx context.Context, tx pgx.Tx, userID int64) error
}

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its code. Returns nil when absent.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByID retrieves a coupon by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)

	// GetAll retrieves all coupons.
	GetAll(ctx context.Context) ([]model.Coupon, error)

	// GetActive retrieves coupons that are active and inside their validity
	// window at the given instant.
	GetActive(ctx context.Context, now time.Time) ([]model.Coupon, error)

	// Create inserts a new coupon and populates its generated ID.
	Create(ctx context.Context, coupon *model.Coupon) error

	// Update overwrites an existing coupon's attributes.
	Update(ctx context.Context, coupon *model.Coupon) error

	// Delete removes a coupon by ID. Reports false when no coupon exists.
	Delete(ctx context.Context, id int64) (bool, error)

	// IncrementUsage atomically increments the coupon's usage counter within
	// the provided transaction, guarded against its usage limit. It reports
	// false when the coupon is absent or the limit is already reached.
	IncrementUsage(ctx context.Context, tx pgx.Tx, code string) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// LockUserOrders serialises order placement per user by acquiring a
	// transaction-scoped advisory lock on the user's ID.
	LockUserOrders(ctx context.Context, tx pgx.Tx, userID int64) error

	// CountByUser returns the number of orders the user has placed, read
	// within the provided transaction.
	CountByUser(ctx context.Context, tx pgx.Tx, userID int64) (int, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's lines within the provided
	// transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves all orders for the user, newest first, each with
	// its items.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
}
