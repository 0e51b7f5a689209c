package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. The transaction core only ever creates PLACED orders;
// later transitions belong to the admin fulfilment workflow.
const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Order is an immutable record of a finalised purchase. TotalAmount already
// has any coupon discount applied; both the code and the discount amount are
// persisted so totals stay auditable after coupon edits.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         int64           `json:"userId" db:"user_id"`
	Status         string          `json:"status" db:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CouponCode     *string         `json:"couponCode,omitempty" db:"coupon_code"`
	DiscountAmount decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	OrderDate      time.Time       `json:"orderDate" db:"order_date"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a frozen snapshot of one cart line at placement time.
// UnitPrice is captured from the product when the order is placed and is
// never re-read afterwards.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// PlaceOrderRequest is the request payload for placing an order.
type PlaceOrderRequest struct {
	CouponCode *string `json:"couponCode,omitempty"`
}
