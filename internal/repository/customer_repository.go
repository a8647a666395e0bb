package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"sport-shop/internal/model"
)

const customerColumns = `id, name, phone, email, user_id`

type customerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

func scanCustomer(row pgx.Row, c *model.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.UserID)
}

// getOne runs a single-row customer query against q.
func (r *customerRepository) getOne(ctx context.Context, q querier, where string, arg any) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + where + ` ORDER BY id LIMIT 1`

	var c model.Customer
	if err := scanCustomer(q.QueryRow(ctx, query, arg), &c); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("where", where).Msg("failed to query customer")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) GetAll(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query customers")
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	return r.getOne(ctx, r.pool, "id = $1", id)
}

func (r *customerRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Customer, error) {
	return r.getOne(ctx, tx, "id = $1", id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.getOne(ctx, r.pool, "email = $1", email)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return r.getOne(ctx, r.pool, "phone = $1", phone)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID int64) (*model.Customer, error) {
	return r.getOne(ctx, r.pool, "user_id = $1", userID)
}

func (r *customerRepository) ListIDsByUserID(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM customers WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query customer ids")
		return nil, fmt.Errorf("failed to query customer ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to read customer ids: %w", err)
	}
	return ids, nil
}

// Create inserts the customer and sets its ID. Unique violations become
// model.ErrDuplicateEmail or model.ErrDuplicatePhone.
func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (name, phone, email, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if err := r.pool.QueryRow(ctx, query, c.Name, c.Phone, c.Email, c.UserID).Scan(&c.ID); err != nil {
		if dup := duplicateCustomer(err); dup != nil {
			return dup
		}
		r.logger.Error().Err(err).Str("email", c.Email).Msg("failed to create customer")
		return fmt.Errorf("failed to create customer: %w", err)
	}

	r.logger.Debug().Int64("customer_id", c.ID).Msg("customer created")
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c *model.Customer) (bool, error) {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, user_id = $5
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Email, c.UserID)
	if err != nil {
		if dup := duplicateCustomer(err); dup != nil {
			return false, dup
		}
		r.logger.Error().Err(err).Int64("customer_id", c.ID).Msg("failed to update customer")
		return false, fmt.Errorf("failed to update customer: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a customer. A customer with orders yields model.ErrCustomerInUse.
func (r *customerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if _, ok := violation(err, pgForeignKeyViolation); ok {
			return false, model.ErrCustomerInUse
		}
		r.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to delete customer")
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func duplicateCustomer(err error) error {
	constraint, ok := violation(err, pgUniqueViolation)
	if !ok {
		return nil
	}
	switch constraint {
	case "customers_email_key":
		return model.ErrDuplicateEmail
	case "customers_phone_key":
		return model.ErrDuplicatePhone
	}
	return model.NewConflictError(model.ErrCodeDuplicateEmail, "Customer already exists")
}
