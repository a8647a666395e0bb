package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"sport-shop/internal/model"
)

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

// Create inserts the user and links its roles by name. Unknown role names
// are ignored.
func (r *userRepository) Create(ctx context.Context, u *model.User) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var email *string
	if u.Email != "" {
		email = &u.Email
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, password, email) VALUES ($1, $2, $3) RETURNING id`,
		u.Username, u.PasswordHash, email,
	).Scan(&u.ID)
	if err != nil {
		if constraint, ok := violation(err, pgUniqueViolation); ok {
			if constraint == "users_email_key" {
				return model.ErrDuplicateEmail
			}
			return model.ErrDuplicateUsername
		}
		r.logger.Error().Err(err).Str("username", u.Username).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	if len(u.Roles) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) SELECT $1, id FROM roles WHERE name = ANY($2)`,
			u.ID, u.Roles,
		)
		if err != nil {
			r.logger.Error().Err(err).Int64("user_id", u.ID).Msg("failed to assign roles")
			return fmt.Errorf("failed to assign roles: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("user_id", u.ID).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

const userQuery = `
	SELECT u.id, u.username, u.password, COALESCE(u.email, ''),
		COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id
	WHERE %s
	GROUP BY u.id`

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, fmt.Sprintf(userQuery, where), arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Roles)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("where", where).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "u.username = $1", username)
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM users WHERE %s = $1)`, pgx.Identifier{column}.Sanitize())
	if err := r.pool.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Str("column", column).Msg("failed to check user existence")
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}
