package notification

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var errNoRecipient = errors.New("customer has no contact for this channel")

// EmailNotifier tells the customer about the new status by e-mail.
type EmailNotifier struct {
	logger zerolog.Logger
}

func NewEmailNotifier(logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{logger: logger.With().Str("notifier", "email").Logger()}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(_ context.Context, e Event) error {
	if e.Order.Customer.Email == "" {
		return errNoRecipient
	}
	n.logger.Info().
		Str("to", e.Order.Customer.Email).
		Int64("order_id", e.Order.ID).
		Str("status", e.NewStatus).
		Msgf("EMAIL NOTIFICATION: order #%d status changed to %s", e.Order.ID, e.NewStatus)
	return nil
}

// SMSNotifier texts the customer's phone.
type SMSNotifier struct {
	logger zerolog.Logger
}

func NewSMSNotifier(logger zerolog.Logger) *SMSNotifier {
	return &SMSNotifier{logger: logger.With().Str("notifier", "sms").Logger()}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Notify(_ context.Context, e Event) error {
	if e.Order.Customer.Phone == "" {
		return errNoRecipient
	}
	n.logger.Info().
		Str("to", e.Order.Customer.Phone).
		Int64("order_id", e.Order.ID).
		Str("old_status", e.OldStatus).
		Str("new_status", e.NewStatus).
		Msgf("SMS NOTIFICATION: order #%d %s -> %s", e.Order.ID, e.OldStatus, e.NewStatus)
	return nil
}

// AdminNotifier reports every transition to shop administrators.
type AdminNotifier struct {
	logger zerolog.Logger
}

func NewAdminNotifier(logger zerolog.Logger) *AdminNotifier {
	return &AdminNotifier{logger: logger.With().Str("notifier", "admin").Logger()}
}

func (n *AdminNotifier) Name() string { return "admin" }

func (n *AdminNotifier) Notify(_ context.Context, e Event) error {
	n.logger.Info().
		Int64("order_id", e.Order.ID).
		Int64("customer_id", e.Order.Customer.ID).
		Str("customer_name", e.Order.Customer.Name).
		Str("old_status", e.OldStatus).
		Str("new_status", e.NewStatus).
		Str("total", e.Order.TotalPrice.StringFixed(2)).
		Msg("ADMIN NOTIFICATION: order status changed")
	return nil
}

// AnalyticsNotifier records fulfilment statistics.
type AnalyticsNotifier struct {
	logger zerolog.Logger
}

func NewAnalyticsNotifier(logger zerolog.Logger) *AnalyticsNotifier {
	return &AnalyticsNotifier{logger: logger.With().Str("notifier", "analytics").Logger()}
}

func (n *AnalyticsNotifier) Name() string { return "analytics" }

// Status names the analytics notifier reacts to.
const (
	StatusInWork    = "IN_WORK"
	StatusCompleted = "COMPLETED"
)

func (n *AnalyticsNotifier) Notify(_ context.Context, e Event) error {
	switch {
	case e.OldStatus == StatusInWork && e.NewStatus == StatusCompleted:
		taken := e.OccurredAt.Sub(e.Order.CreatedAt)
		n.logger.Info().
			Int64("order_id", e.Order.ID).
			Float64("minutes", taken.Round(time.Second).Minutes()).
			Msg("ANALYTICS: order fulfilled")
	case e.NewStatus == StatusCompleted:
		n.logger.Info().
			Int64("order_id", e.Order.ID).
			Int("items", len(e.Order.Items)).
			Str("total", e.Order.TotalPrice.StringFixed(2)).
			Msg("ANALYTICS: order completed")
	default:
		n.logger.Debug().
			Int64("order_id", e.Order.ID).
			Str("old_status", e.OldStatus).
			Str("new_status", e.NewStatus).
			Msg("ANALYTICS: status transition")
	}
	return nil
}

// Defaults returns the built-in notifiers in their call order.
func Defaults(logger zerolog.Logger) []Notifier {
	return []Notifier{
		NewEmailNotifier(logger),
		NewSMSNotifier(logger),
		NewAdminNotifier(logger),
		NewAnalyticsNotifier(logger),
	}
}

