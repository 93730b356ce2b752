// Package rabbitmq publishes billing events. Every payment ledger row is
// mirrored to the "billing" exchange so downstream consumers (receipts,
// bookkeeping exports) can react without polling the database.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Exchange and routing configuration of the billing events.
const (
	BillingExchange   = "billing"
	PaymentsQueue     = "billing.payments"
	PaymentRoutingKey = "payments"
)

// Connect dials RabbitMQ with retries.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel opens a channel and declares the billing exchange and its
// payments queue.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		BillingExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := ch.QueueDeclare(
		PaymentsQueue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, PaymentsQueue, err)
	}

	if err := ch.QueueBind(
		PaymentsQueue,
		PaymentRoutingKey,
		BillingExchange,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, PaymentsQueue, err)
	}

	return ch, nil
}
