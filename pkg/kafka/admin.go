package kafka

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"
)

type TopicConfig struct {
	NumPartitions     int32
	ReplicationFactor int16
}

// EnsureTopics declares the given topics on the cluster, creating any that
// are absent. Existing topics are left untouched.
func EnsureTopics(brokers []string, topicCfg TopicConfig, topics ...string) error {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Version = sarama.V2_8_0_0

	admin, err := sarama.NewClusterAdmin(brokers, saramaCfg)
	if err != nil {
		return fmt.Errorf("failed to create kafka cluster admin: %w", err)
	}
	defer admin.Close()

	detail := &sarama.TopicDetail{
		NumPartitions:     topicCfg.NumPartitions,
		ReplicationFactor: topicCfg.ReplicationFactor,
	}

	for _, topic := range topics {
		if err := admin.CreateTopic(topic, detail, false); err != nil {
			var topicErr *sarama.TopicError
			if errors.As(err, &topicErr) && topicErr.Err == sarama.ErrTopicAlreadyExists {
				continue
			}
			return fmt.Errorf("failed to create topic %s: %w", topic, err)
		}
	}

	return nil
}
