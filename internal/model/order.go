package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusCreated is the status of a freshly assembled order.
const StatusCreated = "CREATED"

// Order represents a customer order.
type Order struct {
	ID               int64           `json:"id" db:"id"`
	Customer         Customer        `json:"customer"`
	Items            []OrderItem     `json:"items"`
	TotalPrice       decimal.Decimal `json:"totalPrice" db:"total_price"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	DeliveryMethodID *int64          `json:"deliveryMethodId,omitempty" db:"delivery_method_id"`
	DeliveryAddress  *string         `json:"deliveryAddress,omitempty" db:"delivery_address"`
	PaymentMethodID  *int64          `json:"paymentMethodId,omitempty" db:"payment_method_id"`
}

// OrderItem is a line item. Product fields are copied at creation time so
// later catalogue edits do not change historical orders.
type OrderItem struct {
	ID                 int64           `json:"id" db:"id"`
	OrderID            int64           `json:"-" db:"order_id"`
	ProductID          int64           `json:"productId" db:"product_id"`
	ProductName        string          `json:"productName" db:"product_name"`
	ProductDescription string          `json:"productDescription" db:"product_description"`
	ProductImageURL    string          `json:"productImageUrl" db:"product_image_url"`
	Price              decimal.Decimal `json:"price" db:"price"`
	Quantity           int             `json:"quantity" db:"quantity"`
}

// Subtotal returns price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderRequest represents the request payload for creating an order.
// Delivery and payment methods may be given either by id or by code; the id
// wins when both are present.
type OrderRequest struct {
	CustomerID       int64              `json:"customerId"`
	Items            []OrderItemRequest `json:"items"`
	DeliveryMethodID *int64             `json:"deliveryMethodId,omitempty"`
	DeliveryMethod   *string            `json:"deliveryMethod,omitempty"`
	DeliveryAddress  *string            `json:"deliveryAddress,omitempty"`
	PaymentMethodID  *int64             `json:"paymentMethodId,omitempty"`
	PaymentMethod    *string            `json:"paymentMethod,omitempty"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// StatusUpdateRequest is the payload for changing an order status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// CodeLookup translates a stored method id back to its code.
type CodeLookup interface {
	CodeByID(id int64) (string, bool)
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID               int64           `json:"id"`
	CustomerID       int64           `json:"customerId"`
	CustomerName     string          `json:"customerName"`
	CustomerEmail    string          `json:"customerEmail"`
	CustomerPhone    string          `json:"customerPhone"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	Items            []OrderItem     `json:"orderItems"`
	DeliveryMethodID *int64          `json:"deliveryMethodId,omitempty"`
	DeliveryMethod   string          `json:"deliveryMethod,omitempty"`
	DeliveryAddress  *string         `json:"deliveryAddress,omitempty"`
	PaymentMethodID  *int64          `json:"paymentMethodId,omitempty"`
	PaymentMethod    string          `json:"paymentMethod,omitempty"`
}

// NewOrderResponse builds the API view of an order. Method codes are filled
// in from the given lookups; either may be nil.
func NewOrderResponse(o *Order, delivery, payment CodeLookup) *OrderResponse {
	resp := &OrderResponse{
		ID:               o.ID,
		CustomerID:       o.Customer.ID,
		CustomerName:     o.Customer.Name,
		CustomerEmail:    o.Customer.Email,
		CustomerPhone:    o.Customer.Phone,
		TotalPrice:       o.TotalPrice,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt,
		Items:            o.Items,
		DeliveryMethodID: o.DeliveryMethodID,
		DeliveryAddress:  o.DeliveryAddress,
		PaymentMethodID:  o.PaymentMethodID,
	}
	if resp.Items == nil {
		resp.Items = []OrderItem{}
	}

	if delivery != nil && o.DeliveryMethodID != nil {
		if code, ok := delivery.CodeByID(*o.DeliveryMethodID); ok {
			resp.DeliveryMethod = code
		}
	}
	if payment != nil && o.PaymentMethodID != nil {
		if code, ok := payment.CodeByID(*o.PaymentMethodID); ok {
			resp.PaymentMethod = code
		}
	}

	return resp
}
