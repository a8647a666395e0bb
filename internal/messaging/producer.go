// Package messaging publishes order events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"sport-shop/internal/notification"
)

var producerTracer = otel.Tracer("messaging/producer")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEvent is the JSON payload published for every status change.
type OrderEvent struct {
	OrderID    int64     `json:"orderId"`
	CustomerID int64     `json:"customerId"`
	OldStatus  string    `json:"oldStatus,omitempty"`
	NewStatus  string    `json:"newStatus"`
	TotalPrice string    `json:"totalPrice"`
	Items      int       `json:"items"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Producer is a notifier that publishes order events keyed by order id.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a producer writing to topic on the given brokers.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

func (p *Producer) Name() string { return "kafka" }

// Notify publishes the event. Messages share a key per order so a
// partition sees each order's transitions in order.
func (p *Producer) Notify(ctx context.Context, e notification.Event) error {
	data, err := json.Marshal(OrderEvent{
		OrderID:    e.Order.ID,
		CustomerID: e.Order.Customer.ID,
		OldStatus:  e.OldStatus,
		NewStatus:  e.NewStatus,
		TotalPrice: e.Order.TotalPrice.StringFixed(2),
		Items:      len(e.Order.Items),
		OccurredAt: e.OccurredAt,
	})
	if err != nil {
		return err
	}

	key := strconv.FormatInt(e.Order.ID, 10)
	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
