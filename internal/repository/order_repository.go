package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"sport-shop/internal/model"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderSelect = `
	SELECT o.id, o.total_price, o.status, o.created_at,
		o.delivery_method_id, o.delivery_address, o.payment_method_id,
		c.id, c.name, c.phone, c.email, c.user_id
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.TotalPrice, &o.Status, &o.CreatedAt,
		&o.DeliveryMethodID, &o.DeliveryAddress, &o.PaymentMethodID,
		&o.Customer.ID, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Email, &o.Customer.UserID,
	)
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (customer_id, total_price, status, created_at, delivery_method_id, delivery_address, payment_method_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		order.Customer.ID, order.TotalPrice, order.Status, order.CreatedAt,
		order.DeliveryMethodID, order.DeliveryAddress, order.PaymentMethodID,
	).Scan(&order.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("customer_id", order.Customer.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, product_name, product_description, product_image_url, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.OrderID, item.ProductID, item.ProductName, item.ProductDescription,
			item.ProductImageURL, item.Price, item.Quantity,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its customer and items.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := scanOrder(r.pool.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id), &order); err != nil {
		if isNoRows(err) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// GetAll retrieves every order, newest first.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY o.created_at DESC, o.id DESC`)
}

// GetByCustomerIDs retrieves the orders of any of the given customers.
func (r *orderRepository) GetByCustomerIDs(ctx context.Context, customerIDs []int64) ([]model.Order, error) {
	if len(customerIDs) == 0 {
		return []model.Order{}, nil
	}
	return r.list(ctx, orderSelect+` WHERE o.customer_id = ANY($1) ORDER BY o.created_at DESC, o.id DESC`, customerIDs)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the items of all given orders with one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query := `
		SELECT id, order_id, product_id, product_name, product_description, product_image_url, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("order_count", len(ids)).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductDescription, &item.ProductImageURL, &item.Price, &item.Quantity,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// UpdateStatus overwrites the order status and returns the status it
// replaced. The CTE locks the row, so concurrent updates serialise.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) (oldStatus string, found bool, err error) {
	query := `
		WITH prev AS (
			SELECT id, status FROM orders WHERE id = $1 FOR UPDATE
		)
		UPDATE orders o SET status = $2
		FROM prev
		WHERE o.id = prev.id
		RETURNING prev.status`

	err = r.pool.QueryRow(ctx, query, id, status).Scan(&oldStatus)
	if isNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Str("status", status).Msg("failed to update order status")
		return "", false, fmt.Errorf("failed to update order status: %w", err)
	}
	return oldStatus, true, nil
}

// Delete removes the order; its items go with it.
func (r *orderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
