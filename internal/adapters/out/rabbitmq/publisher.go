// Package rabbitmq publishes order lifecycle events to a topic exchange.
// Delivery is best effort: the transitions themselves are durable in
// PostgreSQL, so a lost event never needs a rollback.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"dispatch/internal/core/domain/model/order"
)

const exchangeName = "dispatch.orders"

// statusChangedEvent is the wire format consumers bind on. Routing key is
// "order.status.<to>".
type statusChangedEvent struct {
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher implements ports.OrderStatusPublisher over AMQP.
type Publisher struct {
	conn *amqp.Connection
	log  *slog.Logger
}

// NewPublisher dials the broker and declares the topic exchange.
func NewPublisher(url string, log *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declaring exchange: %w", err)
	}

	return &Publisher{conn: conn, log: log}, nil
}

// PublishStatusChanged announces a committed transition. The actor is the
// reviewer for review outcomes and the assigned driver otherwise.
func (p *Publisher) PublishStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status) error {
	event := statusChangedEvent{
		OrderID:    aggregate.ID().String(),
		From:       from.String(),
		To:         aggregate.Status().String(),
		Actor:      eventActor(aggregate, from),
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling status event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.log.Warn("status event dropped: opening channel", "order_id", event.OrderID, "error", err)
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	routingKey := "order.status." + event.To
	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		p.log.Warn("status event dropped: publish failed",
			"order_id", event.OrderID, "to", event.To, "error", err)
		return fmt.Errorf("publishing status event: %w", err)
	}

	return nil
}

// Close shuts down the AMQP connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}

func eventActor(aggregate *order.Order, from order.Status) string {
	if from == order.PendingReview {
		return aggregate.ReviewedBy()
	}
	return aggregate.DriverName()
}
