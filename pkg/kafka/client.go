package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
)

type ClientConfig struct {
	Brokers          []string
	ProducerRetryMax int
}

// NewClient builds a sarama client shared by the producer and the consumer
// group. Producer acks are set to WaitForAll so the broker commits a message
// to its log before the publish call returns; consumers start from the
// oldest uncommitted offset so messages accepted while no worker was running
// are still delivered.
func NewClient(cfg ClientConfig) (sarama.Client, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Version = sarama.V2_8_0_0
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = cfg.ProducerRetryMax
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true
	saramaCfg.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaCfg.Consumer.Return.Errors = true

	client, err := sarama.NewClient(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return client, nil
}

func NewSyncProducerFromClient(client sarama.Client) (sarama.SyncProducer, error) {
	prod, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return prod, nil
}

func NewConsumerGroupFromClient(groupID string, client sarama.Client) (sarama.ConsumerGroup, error) {
	consGr, err := sarama.NewConsumerGroupFromClient(groupID, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return consGr, nil
}
