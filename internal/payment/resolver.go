// Package payment resolves payment methods and decides whether an order can be paid.
package payment

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Method codes.
const (
	CodeCreditCard     = "CREDIT_CARD"
	CodePayPal         = "PAYPAL"
	CodeCashOnDelivery = "CASH_ON_DELIVERY"
)

// CashOnDeliveryLimit is the largest amount, in whole currency units,
// accepted for cash on delivery.
const CashOnDeliveryLimit int64 = 50000

// Method describes a payment method.
type Method struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Processor handles payment for a single method.
type Processor interface {
	Code() string
	Process(ctx context.Context, orderID int64, amount decimal.Decimal) bool
}

// Resolver maps codes and ids to processors.
type Resolver struct {
	processors map[string]Processor
	methods    []Method
	byID       map[int64]Method
	byCode     map[string]int64
	logger     zerolog.Logger
}

// NewResolver returns a resolver with the built-in methods registered.
func NewResolver(logger zerolog.Logger) *Resolver {
	logger = logger.With().Str("component", "payment").Logger()
	r := &Resolver{
		processors: make(map[string]Processor),
		byID:       make(map[int64]Method),
		byCode:     make(map[string]int64),
		logger:     logger,
	}

	r.register(Method{ID: 1, Code: CodeCreditCard, Name: "Credit card"}, creditCard{logger: logger})
	r.register(Method{ID: 2, Code: CodePayPal, Name: "PayPal"}, payPal{logger: logger})
	r.register(Method{ID: 3, Code: CodeCashOnDelivery, Name: "Cash on delivery"},
		cashOnDelivery{limit: decimal.NewFromInt(CashOnDeliveryLimit), logger: logger})

	return r
}

func (r *Resolver) register(m Method, p Processor) {
	r.processors[m.Code] = p
	r.methods = append(r.methods, m)
	r.byID[m.ID] = m
	r.byCode[m.Code] = m.ID
}

// Process attempts payment with the given method. Unknown methods and
// declined payments both return false.
func (r *Resolver) Process(ctx context.Context, code string, orderID int64, amount decimal.Decimal) bool {
	p, ok := r.processors[code]
	if !ok {
		r.logger.Warn().Str("method", code).Int64("order_id", orderID).Msg("Unknown payment method")
		return false
	}
	return p.Process(ctx, orderID, amount)
}

// ProcessByID is Process keyed by method id.
func (r *Resolver) ProcessByID(ctx context.Context, id int64, orderID int64, amount decimal.Decimal) bool {
	code, ok := r.CodeByID(id)
	if !ok {
		r.logger.Warn().Int64("method_id", id).Int64("order_id", orderID).Msg("Unknown payment method id")
		return false
	}
	return r.Process(ctx, code, orderID, amount)
}

// CodeByID translates a method id to its code.
func (r *Resolver) CodeByID(id int64) (string, bool) {
	m, ok := r.byID[id]
	if !ok {
		return "", false
	}
	return m.Code, true
}

// IDByCode translates a method code to its id.
func (r *Resolver) IDByCode(code string) (int64, bool) {
	id, ok := r.byCode[code]
	return id, ok
}

func (r *Resolver) IsKnown(code string) bool {
	_, ok := r.processors[code]
	return ok
}

func (r *Resolver) IsKnownID(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// Methods lists the registered methods in id order.
func (r *Resolver) Methods() []Method {
	out := make([]Method, len(r.methods))
	copy(out, r.methods)
	return out
}

// MethodsByID returns the registered methods keyed by id.
func (r *Resolver) MethodsByID() map[int64]Method {
	out := make(map[int64]Method, len(r.byID))
	for id, m := range r.byID {
		out[id] = m
	}
	return out
}
