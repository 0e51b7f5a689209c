package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeInvalidCoupon   = "INVALID_COUPON"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying a stable error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUserNotFound     = NewDomainError(ErrCodeNotFound, "User not found")
	ErrProductNotFound  = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrCartItemNotFound = NewDomainError(ErrCodeNotFound, "Cart item not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrCouponNotFound   = NewDomainError(ErrCodeNotFound, "Coupon not found")
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Cart is empty, add items before placing an order")
	ErrInvalidCoupon    = NewDomainError(ErrCodeInvalidCoupon, "Coupon is invalid, expired or cannot be applied to this order")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrConflict         = NewDomainError(ErrCodeConflict, "Order placement conflicted with a concurrent request")
	ErrForbidden        = NewDomainError(ErrCodeForbidden, "Not allowed to access this resource")
)
