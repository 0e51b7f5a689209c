package service

import (
	"context"
	"fmt"

	"makhana-store/internal/model"
	"makhana-store/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// AddToCart adds a product to the user's cart. Re-adding a product replaces
// the existing line's quantity with the new one.
func (s *cartService) AddToCart(ctx context.Context, userID int64, productID string, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		s.logger.Warn().
			Int64("user_id", userID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("invalid quantity for add to cart")
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	item, err := s.cartRepo.Upsert(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	item.Product = product

	s.logger.Info().
		Int64("user_id", userID).
		Str("product_id", productID).
		Int("quantity", item.Quantity).
		Msg("cart item saved")

	return item, nil
}

// UpdateCartItem overwrites the quantity of an existing line. Unlike
// AddToCart it never creates a line, and a quantity of zero or less removes
// the line instead.
func (s *cartService) UpdateCartItem(ctx context.Context, userID int64, productID string, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		if err := s.RemoveFromCart(ctx, userID, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	updated, err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if !updated {
		s.logger.Debug().
			Int64("user_id", userID).
			Str("product_id", productID).
			Msg("cart item not found for update")
		return nil, model.ErrCartItemNotFound
	}

	return &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Product:   product,
	}, nil
}

// RemoveFromCart deletes the line for the product if present.
func (s *cartService) RemoveFromCart(ctx context.Context, userID int64, productID string) error {
	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("product_id", productID).
		Msg("cart item removed")

	return nil
}

// GetCart retrieves the user's cart lines with product details.
func (s *cartService) GetCart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return items, nil
}
