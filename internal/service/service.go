package service

import (
	"context"

	"sport-shop/internal/auth"
	"sport-shop/internal/model"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves products with pagination, most recently updated first.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product unless an order item references it.
	Delete(ctx context.Context, id int64) error
}

// CustomerService defines operations for customer management.
type CustomerService interface {
	GetAll(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, req *model.CustomerRequest, userID *int64) (*model.Customer, error)
	Update(ctx context.Context, id int64, req *model.CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error

	// FindOrCreate resolves the customer for the caller: the user's own
	// customer first, then a match by email, then by phone, else a new one.
	FindOrCreate(ctx context.Context, req *model.CustomerRequest, principal *auth.Principal) (*model.Customer, error)

	// Check looks a customer up by email, then by the caller's user.
	Check(ctx context.Context, email string, principal *auth.Principal) (*model.Customer, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder prices and persists a new order in one transaction.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id int64) (*model.OrderResponse, error)

	GetAll(ctx context.Context) ([]model.OrderResponse, error)

	// GetByUsername lists the orders of every customer owned by the user.
	GetByUsername(ctx context.Context, username string) ([]model.OrderResponse, error)

	// UpdateStatus changes the status and notifies observers.
	UpdateStatus(ctx context.Context, id int64, status string) (*model.OrderResponse, error)

	Delete(ctx context.Context, id int64) error
}

// AuthService defines registration, login and token checks.
type AuthService interface {
	Register(ctx context.Context, req *model.AuthRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req *model.AuthRequest) (*model.AuthResponse, error)

	// Check never fails; any problem yields an unauthenticated response.
	Check(ctx context.Context, authorizationHeader string) *model.CheckAuthResponse
}

// MethodLookup translates between delivery or payment method ids and codes.
type MethodLookup interface {
	CodeByID(id int64) (string, bool)
	IDByCode(code string) (int64, bool)
	IsKnownID(id int64) bool
}

// StatusNotifier is told about every order status transition.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, order *model.Order, oldStatus, newStatus string)
}
