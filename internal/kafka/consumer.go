package kafka

import (
	"context"
	"fmt"
	"log"

	"github.com/IBM/sarama"
)

type MessageProcessor func(context.Context, []byte) error

// NotificationConsumer reads the outbox topic and hands every message
// to the processor, which owns decoding and delivery.
type NotificationConsumer struct {
	consumer  sarama.Consumer
	topic     string
	processor MessageProcessor
}

func NewConsumer(brokers []string, topic string, processor MessageProcessor) (*NotificationConsumer, error) {
	conf := sarama.NewConfig()
	conf.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("creating kafka consumer: %w", err)
	}
	return &NotificationConsumer{consumer: consumer, topic: topic, processor: processor}, nil
}

// Start consumes the single outbox partition until the context is done.
// Processor failures are logged and skipped; delivery is best-effort.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	partitionConsumer, err := c.consumer.ConsumePartition(c.topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("consuming partition: %w", err)
	}
	defer func() {
		if err := partitionConsumer.Close(); err != nil {
			log.Printf("closing partition consumer: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("notification consumer stopping")
			return ctx.Err()
		case message := <-partitionConsumer.Messages():
			if err := c.processor(ctx, message.Value); err != nil {
				log.Printf("processing notification: %v", err)
			}
		}
	}
}

func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}
