package service

import (
	"context"
	"errors"
	"fmt"

	"makhana-store/internal/model"
	"makhana-store/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo  repository.OrderRepository
	cartRepo   repository.CartRepository
	couponRepo repository.CouponRepository
	userRepo   repository.UserRepository
	logger     zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		userRepo:   userRepo,
		logger:     logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts the user's cart into an order. The whole placement is
// one transaction: cart snapshot, order and item inserts, coupon usage
// increment and cart drain either all commit or all roll back. A placement
// that loses a concurrency race is retried once before surfacing a conflict.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, couponCode *string) (*model.Order, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	order, err := s.placeOrderOnce(ctx, userID, couponCode)
	if err != nil && isSerializationFailure(err) {
		s.logger.Warn().
			Int64("user_id", userID).
			Msg("order placement hit a serialization failure, retrying once")

		order, err = s.placeOrderOnce(ctx, userID, couponCode)
		if err != nil && isSerializationFailure(err) {
			return nil, model.ErrConflict
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("user_id", userID).
		Str("total_amount", order.TotalAmount.String()).
		Int("item_count", len(order.Items)).
		Msg("order placed")

	return order, nil
}

// placeOrderOnce runs a single placement attempt inside one transaction.
func (s *orderService) placeOrderOnce(ctx context.Context, userID int64, couponCode *string) (order *model.Order, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Roll back on any failure so no partial state survives: an order must
	// never exist without its cart drain, nor a drain without its order.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().
					Err(rbErr).
					Int64("user_id", userID).
					Msg("failed to rollback order placement")
			}
		}
	}()

	// Serialise placements per user so two concurrent requests cannot both
	// drain overlapping cart snapshots.
	if err = s.orderRepo.LockUserOrders(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	cartItems, err := s.cartRepo.SnapshotForOrder(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if len(cartItems) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	// Snapshot quantities and unit prices now; prices are never re-read
	// after this point, so later catalogue edits cannot change this order.
	orderID := uuid.New()
	orderItems := make([]model.OrderItem, len(cartItems))
	subtotal := decimal.Zero
	for i, item := range cartItems {
		unitPrice := item.Product.Price
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		}
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	var appliedCode *string
	if couponCode != nil && *couponCode != "" {
		discount, err = s.applyCoupon(ctx, tx, userID, *couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		appliedCode = couponCode
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order = &model.Order{
		ID:             orderID,
		UserID:         userID,
		Status:         model.OrderStatusPlaced,
		TotalAmount:    total.Round(2),
		CouponCode:     appliedCode,
		DiscountAmount: discount,
		OrderDate:      now(),
		Items:          orderItems,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, s.placementFailure(userID, couponCode, len(orderItems), err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		return nil, s.placementFailure(userID, couponCode, len(orderItems), err)
	}

	// Redeem the coupon only once the order rows are written. The guarded
	// UPDATE is the final word on the usage limit: losing the race here
	// invalidates the whole placement.
	if appliedCode != nil {
		var redeemed bool
		redeemed, err = s.couponRepo.IncrementUsage(ctx, tx, *appliedCode)
		if err != nil {
			return nil, s.placementFailure(userID, couponCode, len(orderItems), err)
		}
		if !redeemed {
			err = model.ErrInvalidCoupon
			return nil, err
		}
	}

	if err = s.cartRepo.Drain(ctx, tx, userID); err != nil {
		return nil, s.placementFailure(userID, couponCode, len(orderItems), err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, s.placementFailure(userID, couponCode, len(orderItems), err)
	}

	return order, nil
}

// applyCoupon validates the supplied code against the order subtotal and the
// user's purchase history. An unusable code rejects the whole placement.
func (s *orderService) applyCoupon(ctx context.Context, tx pgx.Tx, userID int64, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to place order: %w", err)
	}
	if coupon == nil {
		s.logger.Warn().Int64("user_id", userID).Str("coupon_code", code).Msg("unknown coupon code")
		return decimal.Zero, model.ErrInvalidCoupon
	}

	orderCount, err := s.orderRepo.CountByUser(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to place order: %w", err)
	}
	isFirstTimeUser := orderCount == 0

	when := now()
	if !coupon.CanBeUsed(subtotal, isFirstTimeUser, when) {
		s.logger.Warn().
			Int64("user_id", userID).
			Str("coupon_code", code).
			Str("subtotal", subtotal.String()).
			Bool("first_time_user", isFirstTimeUser).
			Msg("coupon cannot be applied to this order")
		return decimal.Zero, model.ErrInvalidCoupon
	}

	return coupon.Discount(subtotal, isFirstTimeUser, when), nil
}

// GetOrdersByUser retrieves the user's orders, newest first.
func (s *orderService) GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order, restricted to its owner unless the caller is
// an administrator.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID, userID int64, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.UserID != userID && !isAdmin {
		return nil, model.ErrForbidden
	}
	return order, nil
}

// placementFailure logs enough context to reconcile a failed placement by
// hand and wraps the storage error.
func (s *orderService) placementFailure(userID int64, couponCode *string, lineCount int, err error) error {
	event := s.logger.Error().
		Err(err).
		Int64("user_id", userID).
		Int("line_count", lineCount)
	if couponCode != nil {
		event = event.Str("coupon_code", *couponCode)
	}
	event.Msg("order placement failed")

	return fmt.Errorf("failed to place order: %w", err)
}

// isSerializationFailure reports whether the error is a Postgres
// serialization failure (40001) or deadlock (40P01), both safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
