package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLookup map[int64]string

func (l staticLookup) CodeByID(id int64) (string, bool) {
	code, ok := l[id]
	return code, ok
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Price: decimal.RequireFromString("19.99"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("59.97").Equal(item.Subtotal()))
}

func TestNewOrderResponse(t *testing.T) {
	deliveryID := int64(2)
	paymentID := int64(3)
	address := "Lenina 1"
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	order := &Order{
		ID:               10,
		Customer:         Customer{ID: 7, Name: "Ivan", Email: "ivan@example.com", Phone: "+7900"},
		TotalPrice:       decimal.RequireFromString("100.50"),
		Status:           StatusCreated,
		CreatedAt:        created,
		DeliveryMethodID: &deliveryID,
		DeliveryAddress:  &address,
		PaymentMethodID:  &paymentID,
	}

	t.Run("with lookups", func(t *testing.T) {
		resp := NewOrderResponse(order, staticLookup{2: "POST"}, staticLookup{3: "CASH_ON_DELIVERY"})

		require.NotNil(t, resp)
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, int64(7), resp.CustomerID)
		assert.Equal(t, "Ivan", resp.CustomerName)
		assert.Equal(t, "POST", resp.DeliveryMethod)
		assert.Equal(t, "CASH_ON_DELIVERY", resp.PaymentMethod)
		assert.Equal(t, &address, resp.DeliveryAddress)
		assert.NotNil(t, resp.Items)
	})

	t.Run("nil lookups leave codes empty", func(t *testing.T) {
		resp := NewOrderResponse(order, nil, nil)

		assert.Empty(t, resp.DeliveryMethod)
		assert.Empty(t, resp.PaymentMethod)
		assert.Equal(t, &deliveryID, resp.DeliveryMethodID)
	})

	t.Run("unknown id leaves code empty", func(t *testing.T) {
		resp := NewOrderResponse(order, staticLookup{}, staticLookup{})

		assert.Empty(t, resp.DeliveryMethod)
		assert.Empty(t, resp.PaymentMethod)
	})
}

func TestDomainError_Is(t *testing.T) {
	err := NewNotFoundError(ErrCodeOrderNotFound, "order 5 not found")

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NotErrorIs(t, err, ErrProductNotFound)

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, de.Kind)
}
