// Package notify carries customer-facing messages for order events.
// Services enqueue messages onto a broker topic and a consumer delivers
// them, so a slow SMS or mail provider never blocks a checkout.
//
// One-time codes do not go through this path: they are handed straight
// to a Sender because they must reach the phone within their TTL.
package notify

import (
	"context"
	"log/slog"
	"time"

	"dokan-backend/internal/metric"
)

// Channel selects the delivery transport for a message.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Event names what happened, for routing and log correlation.
type Event string

const (
	EventOTPIssued       Event = "otp.issued"
	EventOrderPlaced     Event = "order.placed"
	EventOrderStatus     Event = "order.status_changed"
	EventPaymentVerified Event = "payment.verified"
	EventReturnRequested Event = "return.requested"
)

// Message is the wire format published to the notification topic.
type Message struct {
	ID          string    `json:"id"`
	Event       Event     `json:"event"`
	Channel     Channel   `json:"channel"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject,omitempty"`
	Body        string    `json:"body"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Enqueuer hands a message to the outbox. Implementations must be safe
// for concurrent use.
//
//go:generate mockery --name=Enqueuer --output=./mocks --case=underscore
type Enqueuer interface {
	Enqueue(ctx context.Context, msg Message) error
}

// LogEnqueuer stands in for the broker when Kafka is disabled: messages
// are logged and dropped. Useful for local development.
type LogEnqueuer struct {
	log *slog.Logger
}

func NewLogEnqueuer(log *slog.Logger) *LogEnqueuer {
	return &LogEnqueuer{log: log}
}

func (l *LogEnqueuer) Enqueue(_ context.Context, msg Message) error {
	l.log.Info("notification (outbox disabled)",
		slog.String("event", string(msg.Event)),
		slog.String("channel", string(msg.Channel)),
		slog.String("recipient", msg.Recipient),
		slog.String("body", msg.Body),
	)
	metric.NotificationsTotal.WithLabelValues(string(msg.Channel), "enqueued").Inc()
	return nil
}
