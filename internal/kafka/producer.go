package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"dokan-backend/internal/metric"
	"dokan-backend/internal/notify"

	"github.com/IBM/sarama"
)

// NotificationProducer publishes notification messages to the outbox
// topic. It satisfies notify.Enqueuer.
type NotificationProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*NotificationProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	return &NotificationProducer{producer: producer, topic: topic}, nil
}

// Enqueue publishes one message, keyed by order number so messages for
// the same order stay ordered.
func (pr *NotificationProducer) Enqueue(_ context.Context, msg notify.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: pr.topic,
		Key:   sarama.StringEncoder(msg.OrderNumber),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := pr.producer.SendMessage(message); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}

	metric.NotificationsTotal.WithLabelValues(string(msg.Channel), "enqueued").Inc()
	return nil
}

func (pr *NotificationProducer) Close() error {
	return pr.producer.Close()
}
