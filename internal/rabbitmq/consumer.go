package rabbitmq

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"messaging-service/internal/observability"
	syncpkg "messaging-service/internal/sync"
)

// Consumer subscribes to the row-change exchange and feeds every envelope
// to the reconciler in arrival order.
type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewConsumer dials the broker and binds a queue to the change exchange.
// An empty amqp url disables consumption; the service then serves requests
// without realtime fan-in.
func NewConsumer(amqpURL, exchange, queue string) (*Consumer, error) {
	if amqpURL == "" {
		log.Printf("rabbitmq consumer disabled: empty amqp url")
		return nil, nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if err := ch.QueueBind(queue, "changes.#", exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Printf("rabbitmq consumer bound queue=%s exchange=%s", queue, exchange)
	return &Consumer{conn: conn, ch: ch, queue: queue}, nil
}

// Run consumes until the context is canceled or the channel closes. A
// malformed or unprocessable delivery is acked and dropped; this layer
// never requeues, staleness is repaired by session recomputation.
func (c *Consumer) Run(ctx context.Context, reconciler *syncpkg.Reconciler) error {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}

			var env syncpkg.ChangeEnvelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				log.Printf("rabbitmq consumer: dropping malformed delivery key=%s: %v", d.RoutingKey, err)
				observability.IncSyncDropped(d.RoutingKey)
				_ = d.Ack(false)
				continue
			}
			if err := reconciler.Handle(ctx, env); err != nil {
				log.Printf("rabbitmq consumer: event dropped stream=%s op=%s: %v", env.Stream, env.Op, err)
			}
			_ = d.Ack(false)
		}
	}
}

// Close tears down the channel and connection.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
