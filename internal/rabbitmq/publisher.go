package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// Publisher pushes billing events onto the billing exchange.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher wraps an already set-up channel.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PaymentRecorded is the event emitted for every new payment ledger row.
type PaymentRecorded struct {
	PaymentID   string  `json:"payment_id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	PaymentType string  `json:"payment_type"`
	ProductName string  `json:"product_name,omitempty"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

// PublishPaymentRecorded publishes the event for a ledger row. Delivery is
// persistent; failures are returned to the caller to log, never to abort
// the payment write itself.
func (p *Publisher) PublishPaymentRecorded(payment *models.Payment) error {
	const op = "rabbitmq.PublishPaymentRecorded"
	event := PaymentRecorded{
		PaymentID:   payment.ID,
		Username:    payment.Username,
		Email:       payment.Email,
		PaymentType: payment.PaymentType,
		ProductName: payment.ProductName,
		Amount:      payment.Amount,
		Status:      payment.Status,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		BillingExchange,
		PaymentRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
