// Package notification fans order status changes out to registered notifiers.
package notification

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"sport-shop/internal/model"
)

// DefaultTimeout bounds a single notifier call when none is configured.
const DefaultTimeout = 2 * time.Second

var (
	errTimeout = errors.New("notifier timed out")
	errPanic   = errors.New("notifier panicked")
)

// Event describes one status transition. Notifiers receive their own copy
// and must treat it as read-only.
type Event struct {
	Order      model.Order `json:"order"`
	OldStatus  string      `json:"oldStatus"`
	NewStatus  string      `json:"newStatus"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// Notifier receives order status events.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event Event) error
}

// Dispatcher calls every registered notifier, in registration order, for
// each status change. Failures are logged and counted, never returned.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	failures  *prometheus.CounterVec
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDispatcher creates a dispatcher. failures may be nil.
func NewDispatcher(timeout time.Duration, failures *prometheus.CounterVec, logger zerolog.Logger, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		notifiers: slices.Clone(notifiers),
		timeout:   timeout,
		failures:  failures,
		logger:    logger.With().Str("component", "notification").Logger(),
		now:       time.Now,
	}
}

// Notifiers returns the registered notifier names in call order.
func (d *Dispatcher) Notifiers() []string {
	names := make([]string, len(d.notifiers))
	for i, n := range d.notifiers {
		names[i] = n.Name()
	}
	return names
}

// StatusChanged notifies every registered notifier about the transition.
// Cancellation of ctx does not abort the fan-out; each notifier gets its own
// deadline instead.
func (d *Dispatcher) StatusChanged(ctx context.Context, order *model.Order, oldStatus, newStatus string) {
	if order == nil {
		return
	}

	snapshot := *order
	snapshot.Items = slices.Clone(order.Items)
	base := context.WithoutCancel(ctx)
	occurred := d.now()

	for _, n := range d.notifiers {
		event := Event{
			Order:      snapshot,
			OldStatus:  oldStatus,
			NewStatus:  newStatus,
			OccurredAt: occurred,
		}
		event.Order.Items = slices.Clone(snapshot.Items)

		if err := d.call(base, n, event); err != nil {
			reason := "error"
			if errors.Is(err, errTimeout) {
				reason = "timeout"
			} else if errors.Is(err, errPanic) {
				reason = "panic"
			}

			d.logger.Error().
				Err(err).
				Str("notifier", n.Name()).
				Str("reason", reason).
				Int64("order_id", order.ID).
				Str("old_status", oldStatus).
				Str("new_status", newStatus).
				Msg("Notifier failed")

			if d.failures != nil {
				d.failures.WithLabelValues(n.Name(), reason).Inc()
			}
		}
	}
}

func (d *Dispatcher) call(parent context.Context, n Notifier, event Event) error {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", errPanic, r)
			}
		}()
		done <- n.Notify(ctx, event)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w after %s", errTimeout, d.timeout)
	}
}
