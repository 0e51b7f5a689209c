package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType determines how a coupon's discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
	DiscountFreeShip    DiscountType = "FREE_SHIPPING"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercentage, DiscountFixedAmount, DiscountFreeShip:
		return true
	}
	return false
}

// Coupon represents a discount code with its validity and usage rules.
//
// UsageCount is incremented exactly once per successful redemption, at
// order-commit time, and never decremented. UserUsageLimit is advisory;
// only the global UsageLimit is enforced at redemption.
type Coupon struct {
	ID                    int64            `json:"id" db:"id"`
	Code                  string           `json:"code" db:"code"`
	Description           string           `json:"description" db:"description"`
	DiscountType          DiscountType     `json:"discountType" db:"discount_type"`
	DiscountValue         decimal.Decimal  `json:"discountValue" db:"discount_value"`
	MinimumOrderAmount    *decimal.Decimal `json:"minimumOrderAmount,omitempty" db:"minimum_order_amount"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximumDiscountAmount,omitempty" db:"maximum_discount_amount"`
	StartDate             time.Time        `json:"startDate" db:"start_date"`
	EndDate               time.Time        `json:"endDate" db:"end_date"`
	UsageLimit            *int             `json:"usageLimit,omitempty" db:"usage_limit"`
	UsageCount            int              `json:"usageCount" db:"usage_count"`
	UserUsageLimit        int              `json:"userUsageLimit" db:"user_usage_limit"`
	Active                bool             `json:"active" db:"active"`
	FirstTimeUserOnly     bool             `json:"firstTimeUserOnly" db:"first_time_user_only"`
	CreatedAt             time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time        `json:"updatedAt" db:"updated_at"`
}

// IsValid reports whether the coupon is redeemable at the given instant:
// active, inside its [StartDate, EndDate) window and not usage-exhausted.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if now.Before(c.StartDate) || !now.Before(c.EndDate) {
		return false
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false
	}
	return true
}

// CanBeUsed reports whether the coupon applies to an order of the given
// amount for the given customer.
func (c *Coupon) CanBeUsed(orderAmount decimal.Decimal, isFirstTimeUser bool, now time.Time) bool {
	if !c.IsValid(now) {
		return false
	}
	if c.MinimumOrderAmount != nil && orderAmount.LessThan(*c.MinimumOrderAmount) {
		return false
	}
	if c.FirstTimeUserOnly && !isFirstTimeUser {
		return false
	}
	return true
}

// Discount returns the monetary discount for an order of the given amount,
// rounded to 2 decimal places. It returns zero when the coupon cannot be
// used. FREE_SHIPPING coupons contribute no monetary discount; shipping is
// handled by the caller.
func (c *Coupon) Discount(orderAmount decimal.Decimal, isFirstTimeUser bool, now time.Time) decimal.Decimal {
	if !c.CanBeUsed(orderAmount, isFirstTimeUser, now) {
		return decimal.Zero
	}

	switch c.DiscountType {
	case DiscountPercentage:
		discount := orderAmount.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
		if c.MaximumDiscountAmount != nil && discount.GreaterThan(*c.MaximumDiscountAmount) {
			discount = *c.MaximumDiscountAmount
		}
		return discount.Round(2)
	case DiscountFixedAmount:
		// Never discount more than the order is worth.
		return decimal.Min(c.DiscountValue, orderAmount).Round(2)
	case DiscountFreeShip:
		return decimal.Zero
	}

	return decimal.Zero
}
