package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"dokan-backend/internal/metric"
)

// Sender delivers one message over a single channel.
//
//go:generate mockery --name=Sender --output=./mocks --case=underscore
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMSSender is a console-delivery stub standing in for a real SMS
// gateway. The logged body is how developers read OTP codes locally.
type SMSSender struct {
	log *slog.Logger
}

func NewSMSSender(log *slog.Logger) *SMSSender {
	return &SMSSender{log: log}
}

func (s *SMSSender) Send(_ context.Context, msg Message) error {
	s.log.Info("sms delivered",
		slog.String("to", msg.Recipient),
		slog.String("body", msg.Body),
	)
	return nil
}

// EmailSender is the matching console stub for email delivery.
type EmailSender struct {
	log *slog.Logger
}

func NewEmailSender(log *slog.Logger) *EmailSender {
	return &EmailSender{log: log}
}

func (s *EmailSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email delivered",
		slog.String("to", msg.Recipient),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// Dispatcher consumes serialized messages from the topic and routes
// each to the sender for its channel.
type Dispatcher struct {
	sms   Sender
	email Sender
	log   *slog.Logger
}

func NewDispatcher(log *slog.Logger, sms, email Sender) *Dispatcher {
	return &Dispatcher{sms: sms, email: email, log: log}
}

// Process is wired in as the consumer's message handler.
func (d *Dispatcher) Process(ctx context.Context, data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decoding notification: %w", err)
	}

	var sender Sender
	switch msg.Channel {
	case ChannelSMS:
		sender = d.sms
	case ChannelEmail:
		sender = d.email
	default:
		return fmt.Errorf("unknown notification channel %q", msg.Channel)
	}

	if err := sender.Send(ctx, msg); err != nil {
		metric.NotificationsTotal.WithLabelValues(string(msg.Channel), "error").Inc()
		return fmt.Errorf("delivering %s notification: %w", msg.Channel, err)
	}
	metric.NotificationsTotal.WithLabelValues(string(msg.Channel), "delivered").Inc()

	d.log.Debug("notification delivered",
		slog.String("event", string(msg.Event)),
		slog.String("channel", string(msg.Channel)),
		slog.String("order", msg.OrderNumber),
	)
	return nil
}
