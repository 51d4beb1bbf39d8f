package kafka

import (
	"fmt"
	"log"

	"github.com/IBM/sarama"
)

// EnsureTopicExists creates the notification topic when it is missing,
// so a fresh broker works without manual setup.
func EnsureTopicExists(brokers []string, topic string) error {
	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0

	admin, err := sarama.NewClusterAdmin(brokers, config)
	if err != nil {
		return fmt.Errorf("creating kafka admin client: %w", err)
	}
	defer func() {
		if err := admin.Close(); err != nil {
			log.Printf("closing kafka admin: %v", err)
		}
	}()

	topics, err := admin.ListTopics()
	if err != nil {
		return fmt.Errorf("listing topics: %w", err)
	}
	if _, exists := topics[topic]; exists {
		return nil
	}

	topicDetails := &sarama.TopicDetail{
		NumPartitions:     1,
		ReplicationFactor: 1,
		ConfigEntries: map[string]*string{
			"retention.ms": strPtr("604800000"),
		},
	}
	if err := admin.CreateTopic(topic, topicDetails, false); err != nil {
		return fmt.Errorf("creating topic: %w", err)
	}

	log.Printf("kafka: created topic %q", topic)
	return nil
}

func strPtr(s string) *string {
	return &s
}
