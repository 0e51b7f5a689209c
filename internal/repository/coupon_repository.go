package repository

import (
	"context"
	"fmt"
	"time"

	"makhana-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

const couponColumns = `id, code, description, discount_type, discount_value,
		minimum_order_amount, maximum_discount_amount, start_date, end_date,
		usage_limit, usage_count, user_usage_limit, active, first_time_user_only,
		created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinimumOrderAmount, &c.MaximumDiscountAmount, &c.StartDate, &c.EndDate,
		&c.UsageLimit, &c.UsageCount, &c.UserUsageLimit, &c.Active, &c.FirstTimeUserOnly,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByCode retrieves a coupon by its code. Codes are case-sensitive.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE code = $1
	`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// GetByID retrieves a coupon by its ID.
func (r *couponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE id = $1
	`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("coupon_id", id).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("coupon_id", id).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// GetAll retrieves all coupons.
func (r *couponRepository) GetAll(ctx context.Context) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY created_at DESC
	`

	return r.queryCoupons(ctx, query)
}

// GetActive retrieves coupons that are active and inside their validity
// window at the given instant.
func (r *couponRepository) GetActive(ctx context.Context, now time.Time) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE active = TRUE AND start_date <= $1 AND end_date > $1
		ORDER BY created_at DESC
	`

	return r.queryCoupons(ctx, query, now)
}

func (r *couponRepository) queryCoupons(ctx context.Context, query string, args ...any) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// Create inserts a new coupon and populates its generated ID.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (code, description, discount_type, discount_value,
			minimum_order_amount, maximum_discount_amount, start_date, end_date,
			usage_limit, usage_count, user_usage_limit, active, first_time_user_only,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		coupon.Code, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinimumOrderAmount, coupon.MaximumDiscountAmount, coupon.StartDate, coupon.EndDate,
		coupon.UsageLimit, coupon.UsageCount, coupon.UserUsageLimit, coupon.Active, coupon.FirstTimeUserOnly,
	).Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Info().Str("code", coupon.Code).Int64("coupon_id", coupon.ID).Msg("coupon created")

	return nil
}

// Update overwrites an existing coupon's attributes. The code itself is
// immutable after creation and is not part of the update.
func (r *couponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2, discount_type = $3, discount_value = $4,
			minimum_order_amount = $5, maximum_discount_amount = $6,
			start_date = $7, end_date = $8, usage_limit = $9,
			user_usage_limit = $10, active = $11, first_time_user_only = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		coupon.ID, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinimumOrderAmount, coupon.MaximumDiscountAmount,
		coupon.StartDate, coupon.EndDate, coupon.UsageLimit,
		coupon.UserUsageLimit, coupon.Active, coupon.FirstTimeUserOnly,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("coupon_id", coupon.ID).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	return nil
}

// Delete removes a coupon by ID.
func (r *couponRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM coupons
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("coupon_id", id).Msg("failed to delete coupon")
		return false, fmt.Errorf("failed to delete coupon: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// IncrementUsage atomically increments the usage counter within the
// transaction. The usage limit guard lives in the WHERE clause, so two
// concurrent redemptions near the limit can never overshoot it: the loser
// matches zero rows and the redemption is rejected.
func (r *couponRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	query := `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE code = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
	`

	tag, err := tx.Exec(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment coupon usage")
		return false, fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("code", code).Msg("coupon usage limit reached or coupon missing")
		return false, nil
	}

	return true, nil
}
