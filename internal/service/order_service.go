package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sport-shop/internal/model"
	"sport-shop/internal/repository"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	delivery     MethodLookup
	payment      MethodLookup
	notifier     StatusNotifier
	created      prometheus.Counter
	now          func() time.Time
	logger       zerolog.Logger
}

// OrderDeps groups the collaborators of the order service.
type OrderDeps struct {
	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Customers repository.CustomerRepository
	Users     repository.UserRepository
	Delivery  MethodLookup
	Payment   MethodLookup
	Notifier  StatusNotifier

	// OrdersCreated is optional.
	OrdersCreated prometheus.Counter
}

// NewOrderService creates a new order service.
func NewOrderService(deps OrderDeps, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo:    deps.Orders,
		productRepo:  deps.Products,
		customerRepo: deps.Customers,
		userRepo:     deps.Users,
		delivery:     deps.Delivery,
		payment:      deps.Payment,
		notifier:     deps.Notifier,
		created:      deps.OrdersCreated,
		now:          time.Now,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder prices and persists a new order. Customer and product lookups
// and the inserts share one transaction; any failure leaves nothing behind.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (resp *model.OrderResponse, err error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	deliveryID, err := resolveMethod(s.delivery, req.DeliveryMethodID, req.DeliveryMethod, model.ErrUnknownDelivery)
	if err != nil {
		s.logger.Warn().Err(err).Msg("unknown delivery method")
		return nil, err
	}

	paymentID, err := resolveMethod(s.payment, req.PaymentMethodID, req.PaymentMethod, model.ErrUnknownPayment)
	if err != nil {
		s.logger.Warn().Err(err).Msg("unknown payment method")
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	customer, err := s.customerRepo.GetByIDTx(ctx, tx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		s.logger.Warn().Int64("customer_id", req.CustomerID).Msg("customer not found")
		err = model.NewNotFoundError(model.ErrCodeCustomerNotFound, fmt.Sprintf("Customer %d not found", req.CustomerID))
		return nil, err
	}

	productIDs := make([]int64, 0, len(req.Items))
	seen := make(map[int64]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDsTx(ctx, tx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.OrderItem, len(req.Items))
	total := decimal.Zero
	for i, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			s.logger.Warn().Int64("product_id", line.ProductID).Msg("product not found")
			err = model.NewNotFoundError(model.ErrCodeProductNotFound, fmt.Sprintf("Product %d not found", line.ProductID))
			return nil, err
		}

		items[i] = model.OrderItem{
			ProductID:          product.ID,
			ProductName:        product.Name,
			ProductDescription: product.Description,
			ProductImageURL:    product.ImageURL,
			Price:              product.Price,
			Quantity:           line.Quantity,
		}
		total = total.Add(items[i].Subtotal())
	}

	order := &model.Order{
		Customer:         *customer,
		TotalPrice:       total,
		Status:           model.StatusCreated,
		CreatedAt:        s.now().UTC(),
		DeliveryMethodID: deliveryID,
		DeliveryAddress:  req.DeliveryAddress,
		PaymentMethodID:  paymentID,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Int64("customer_id", customer.ID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Int64("order_id", order.ID).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("customer_id", customer.ID).
		Int("item_count", len(items)).
		Str("total", total.StringFixed(2)).
		Msg("order created successfully")

	if s.created != nil {
		s.created.Inc()
	}

	return model.NewOrderResponse(order, s.delivery, s.payment), nil
}

// resolveMethod picks the stored method id: an explicit id wins, otherwise a
// non-empty code is translated. Anything unknown is rejected with unknown.
func resolveMethod(lookup MethodLookup, id *int64, code *string, unknown *model.DomainError) (*int64, error) {
	if id != nil {
		if !lookup.IsKnownID(*id) {
			return nil, model.NewValidationError(unknown.Code, fmt.Sprintf("%s: id %d", unknown.Message, *id))
		}
		v := *id
		return &v, nil
	}

	if code == nil || strings.TrimSpace(*code) == "" {
		return nil, nil
	}

	resolved, ok := lookup.IDByCode(strings.TrimSpace(*code))
	if !ok {
		return nil, model.NewValidationError(unknown.Code, fmt.Sprintf("%s: %s", unknown.Message, *code))
	}
	return &resolved, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return model.NewOrderResponse(order, s.delivery, s.payment), nil
}

func (s *orderService) GetAll(ctx context.Context) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return s.responses(orders), nil
}

func (s *orderService) GetByUsername(ctx context.Context, username string) ([]model.OrderResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("username", username).Msg("user not found")
		return nil, model.ErrUserNotFound
	}

	customerIDs, err := s.customerRepo.ListIDsByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers of user: %w", err)
	}

	orders, err := s.orderRepo.GetByCustomerIDs(ctx, customerIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to get user orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	s.logger.Debug().
		Str("username", username).
		Int("customers", len(customerIDs)).
		Int("orders", len(orders)).
		Msg("retrieved user orders")

	return s.responses(orders), nil
}

// UpdateStatus persists the new status, then notifies observers. The
// previous status comes from the update itself, so concurrent updates each
// report their own transition. Notifier failures never undo the change.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (*model.OrderResponse, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, model.ErrInvalidStatus
	}

	oldStatus, found, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !found {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	order.Status = status

	s.logger.Info().
		Int64("order_id", id).
		Str("old_status", oldStatus).
		Str("new_status", status).
		Msg("order status updated")

	s.notifier.StatusChanged(ctx, order, oldStatus, status)

	return model.NewOrderResponse(order, s.delivery, s.payment), nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}

func (s *orderService) responses(orders []model.Order) []model.OrderResponse {
	out := make([]model.OrderResponse, len(orders))
	for i := range orders {
		out[i] = *model.NewOrderResponse(&orders[i], s.delivery, s.payment)
	}
	return out
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError(model.ErrCodeMissingField, "Order request is required")
	}

	if req.CustomerID <= 0 {
		return model.NewValidationError(model.ErrCodeMissingField, "customerId is required")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return model.NewValidationError(model.ErrCodeMissingField, fmt.Sprintf("item %d: productId is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int64("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
