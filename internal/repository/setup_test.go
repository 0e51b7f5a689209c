package repository

import (
	"context"
	"testing"
	"time"

	"makhana-store/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	createSchema(t, pool)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing. It mirrors
// the migrations under migrations/.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			api_token VARCHAR(255) NOT NULL UNIQUE,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			flavor VARCHAR(100) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
			available BOOLEAN NOT NULL DEFAULT TRUE,
			stock_quantity INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			discount_type VARCHAR(20) NOT NULL,
			discount_value DECIMAL(10, 2) NOT NULL CHECK (discount_value >= 0),
			minimum_order_amount DECIMAL(10, 2),
			maximum_discount_amount DECIMAL(10, 2),
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			usage_limit INTEGER,
			usage_count INTEGER NOT NULL DEFAULT 0,
			user_usage_limit INTEGER NOT NULL DEFAULT 1,
			first_time_user_only BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			status VARCHAR(20) NOT NULL DEFAULT 'PLACED',
			total_amount DECIMAL(10, 2) NOT NULL CHECK (total_amount >= 0),
			coupon_code VARCHAR(50),
			discount_amount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			order_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10, 2) NOT NULL CHECK (unit_price >= 0)
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedUser inserts a test user and returns its generated ID.
func seedUser(t *testing.T, pool *pgxpool.Pool, email, token string) int64 {
	ctx := context.Background()

	var id int64
	err := pool.QueryRow(ctx,
		"INSERT INTO users (email, name, api_token) VALUES ($1, $2, $3) RETURNING id",
		email, "Test User", token,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	products := []struct {
		id    string
		name  string
		price string
	}{
		{"MAKHANA-001", "Roasted Makhana", "299.00"},
		{"MAKHANA-002", "Himalayan Salt Makhana", "279.00"},
		{"MAKHANA-003", "Cheese Makhana", "329.00"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, flavor, price) VALUES ($1, $2, $3, $4)",
			p.id, p.name, "Classic", decimal.RequireFromString(p.price),
		)
		require.NoError(t, err)
	}
}

// seedCoupon inserts a coupon valid for a year around now.
func seedCoupon(t *testing.T, pool *pgxpool.Pool, coupon model.Coupon) int64 {
	ctx := context.Background()

	if coupon.StartDate.IsZero() {
		coupon.StartDate = time.Now().AddDate(0, -1, 0)
	}
	if coupon.EndDate.IsZero() {
		coupon.EndDate = time.Now().AddDate(1, 0, 0)
	}
	if coupon.UserUsageLimit == 0 {
		coupon.UserUsageLimit = 1
	}

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO coupons (code, description, discount_type, discount_value,
			minimum_order_amount, maximum_discount_amount, start_date, end_date,
			usage_limit, usage_count, user_usage_limit, active, first_time_user_only)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		coupon.Code, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinimumOrderAmount, coupon.MaximumDiscountAmount, coupon.StartDate, coupon.EndDate,
		coupon.UsageLimit, coupon.UsageCount, coupon.UserUsageLimit, coupon.Active, coupon.FirstTimeUserOnly,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
