package repository

import (
	"context"
	"fmt"

	"makhana-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

const userColumns = `id, email, name, api_token, is_admin, created_at`

// GetByID retrieves a user by its ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.APIToken, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("user_id", id).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// GetByToken retrieves the user owning the given API token.
func (r *userRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE api_token = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&u.ID, &u.Email, &u.Name, &u.APIToken, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Msg("no user for provided token")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user by token")
		return nil, fmt.Errorf("failed to query user by token: %w", err)
	}

	return &u, nil
}
