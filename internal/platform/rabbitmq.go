package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DialAMQP connects to the broker, retrying a few times while it starts up.
func DialAMQP(uri string) (*amqp.Connection, error) {
	const maxRetries = 5
	var errDial error

	for i := 1; i <= maxRetries; i++ {
		conn, err := amqp.Dial(uri)
		if err == nil {
			slog.Info("AMQP connection established")
			return conn, nil
		}
		errDial = err
		slog.Warn("dial AMQP", "attempt", i, "err", err)
		if i < maxRetries {
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("could not establish AMQP connection after %d attempts: %w", maxRetries, errDial)
}

// Publisher publishes JSON events to a durable topic exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

type rabbitMQ struct {
	conn     *amqp.Connection
	exchange string
}

func NewRabbitMQ(conn *amqp.Connection, exchange string) Publisher {
	return &rabbitMQ{conn: conn, exchange: exchange}
}

// Publish opens a channel per call; event volume here is a few per minute.
func (r *rabbitMQ) Publish(ctx context.Context, routingKey string, body any) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to establish channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		r.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body to json failed: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		r.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         jsonBody,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
