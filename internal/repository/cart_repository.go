package repository

import (
	"context"
	"fmt"

	"makhana-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting cart reads
// run either standalone or inside the order placement transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Upsert inserts a cart line or replaces the quantity of an existing one.
// Replace, not increment: re-adding a product sets the new quantity.
func (r *cartRepository) Upsert(ctx context.Context, item *model.CartItem) (*model.CartItem, error) {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
		RETURNING user_id, product_id, quantity, created_at, updated_at
	`

	var saved model.CartItem
	err := r.pool.QueryRow(ctx, query, item.UserID, item.ProductID, item.Quantity).Scan(
		&saved.UserID, &saved.ProductID, &saved.Quantity, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", item.UserID).
			Str("product_id", item.ProductID).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	r.logger.Debug().
		Int64("user_id", saved.UserID).
		Str("product_id", saved.ProductID).
		Int("quantity", saved.Quantity).
		Msg("cart item saved")

	return &saved, nil
}

// UpdateQuantity overwrites the quantity of an existing line. It reports
// false when the user has no line for the product.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID int64, productID string, quantity int) (bool, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Str("product_id", productID).
			Msg("failed to update cart item quantity")
		return false, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Remove deletes the line for the (user, product) pair. Removing an absent
// line is a no-op, not an error.
func (r *cartRepository) Remove(ctx context.Context, userID int64, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	_, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// ListByUser retrieves all cart lines for the user with products populated.
func (r *cartRepository) ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return r.listByUser(ctx, r.pool, userID)
}

// SnapshotForOrder reads the user's full cart within the transaction so the
// order is built from a single consistent set of lines.
func (r *cartRepository) SnapshotForOrder(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartItem, error) {
	return r.listByUser(ctx, tx, userID)
}

func (r *cartRepository) listByUser(ctx context.Context, q querier, userID int64) ([]model.CartItem, error) {
	query := `
		SELECT ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.id, p.name, p.flavor, p.description, p.price, p.available, p.stock_quantity, p.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		var p model.Product
		err := rows.Scan(
			&item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Flavor, &p.Description, &p.Price, &p.Available, &p.StockQuantity, &p.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Product = &p
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Drain deletes all of the user's cart lines within the transaction.
func (r *cartRepository) Drain(ctx context.Context, tx pgx.Tx, userID int64) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`

	tag, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to drain cart")
		return fmt.Errorf("failed to drain cart: %w", err)
	}

	r.logger.Debug().
		Int64("user_id", userID).
		Int64("lines", tag.RowsAffected()).
		Msg("cart drained")

	return nil
}
