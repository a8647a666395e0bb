package payment

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type creditCard struct {
	logger zerolog.Logger
}

func (creditCard) Code() string { return CodeCreditCard }

func (p creditCard) Process(_ context.Context, orderID int64, amount decimal.Decimal) bool {
	p.logger.Info().
		Int64("order_id", orderID).
		Str("amount", amount.StringFixed(2)).
		Msg("Credit card payment accepted")
	return true
}

type payPal struct {
	logger zerolog.Logger
}

func (payPal) Code() string { return CodePayPal }

func (p payPal) Process(_ context.Context, orderID int64, amount decimal.Decimal) bool {
	p.logger.Info().
		Int64("order_id", orderID).
		Str("amount", amount.StringFixed(2)).
		Msg("PayPal payment accepted")
	return true
}

type cashOnDelivery struct {
	limit  decimal.Decimal
	logger zerolog.Logger
}

func (cashOnDelivery) Code() string { return CodeCashOnDelivery }

func (p cashOnDelivery) Process(_ context.Context, orderID int64, amount decimal.Decimal) bool {
	if amount.GreaterThan(p.limit) {
		p.logger.Warn().
			Int64("order_id", orderID).
			Str("amount", amount.StringFixed(2)).
			Str("limit", p.limit.String()).
			Msg("Cash on delivery declined: amount over limit")
		return false
	}

	p.logger.Info().
		Int64("order_id", orderID).
		Str("amount", amount.StringFixed(2)).
		Msg("Cash on delivery accepted")
	return true
}
