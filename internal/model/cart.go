package model

import "time"

// CartItem is one (user, product) line in a cart. There is at most one line
// per user and product; adding an existing product replaces the quantity
// rather than incrementing it.
type CartItem struct {
	UserID    int64     `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItemRequest is the request payload for adding or updating a cart line.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
