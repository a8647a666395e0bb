// Package repository provides PostgreSQL data access. Lookups return
// (nil, nil) when the row does not exist; single-row mutations report
// whether the row existed.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"sport-shop/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetAll retrieves products, most recently updated first.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDsTx retrieves multiple products by their IDs within tx.
	GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error)

	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// IsReferenced reports whether any order item points at the product.
	IsReferenced(ctx context.Context, id int64) (bool, error)

	// Upsert inserts or replaces products by id within tx.
	Upsert(ctx context.Context, tx pgx.Tx, products []model.Product) error

	// ResetSequence moves the id sequence past the highest stored id.
	ResetSequence(ctx context.Context, tx pgx.Tx) error
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*model.Customer, error)

	// GetByUserID returns the user's oldest customer record.
	GetByUserID(ctx context.Context, userID int64) (*model.Customer, error)

	// ListIDsByUserID returns the ids of every customer owned by the user.
	ListIDsByUserID(ctx context.Context, userID int64) ([]int64, error)

	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts the user and its roles in one transaction.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction and
	// sets its ID.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided
	// transaction and sets their IDs.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its customer and items.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	GetAll(ctx context.Context) ([]model.Order, error)
	GetByCustomerIDs(ctx context.Context, customerIDs []int64) ([]model.Order, error)

	// UpdateStatus atomically replaces the status and returns the previous
	// one. found is false when no such order exists.
	UpdateStatus(ctx context.Context, id int64, status string) (oldStatus string, found bool, err error)

	Delete(ctx context.Context, id int64) (bool, error)
}
