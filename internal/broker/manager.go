package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/moviereel/ratings-pipeline/config"
	pkgKafka "github.com/moviereel/ratings-pipeline/pkg/kafka"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

// ErrBrokerUnavailable is returned while no live broker connection exists.
// It is a transient condition: the manager keeps reconnecting in the
// background and callers are expected to report unavailability upstream
// rather than buffer work locally.
var ErrBrokerUnavailable = errors.New("message broker unavailable")

// Manager owns the broker connection shared by the producer service and the
// consumer worker. On connect it declares the pipeline topics; on any
// connection failure it waits a fixed delay and retries, forever.
type Manager struct {
	cfg    config.KafkaConfig
	topics []string
	l      logger.Logger

	mu     sync.RWMutex
	client sarama.Client
	prod   sarama.SyncProducer

	retryCh  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	dialFn func() error
}

func NewManager(cfg config.KafkaConfig, topics []string, l logger.Logger) *Manager {
	m := &Manager{
		cfg:     cfg,
		topics:  topics,
		l:       l,
		retryCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
	m.dialFn = m.dial
	return m
}

// Start launches the background connect loop. The loop establishes the
// initial connection and re-establishes it whenever NotifyFailure is called,
// waiting cfg.ReconnectWait between attempts. There is no retry limit.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			if !m.IsReady() {
				if err := m.dialFn(); err != nil {
					m.l.Errorf(ctx, "broker.Manager.Start: connect failed, retrying in %s: %v", m.cfg.ReconnectWait, err)
					select {
					case <-time.After(m.cfg.ReconnectWait):
					case <-m.stopCh:
						return
					case <-ctx.Done():
						return
					}
					continue
				}
				m.l.Infof(ctx, "Connected to kafka brokers: %v", m.cfg.Brokers)
			}

			select {
			case <-m.retryCh:
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Connect performs a single connection attempt. The worker uses it so that
// its own startup loop can re-establish store and broker together.
func (m *Manager) Connect() error {
	return m.dialFn()
}

func (m *Manager) dial() error {
	topicCfg := pkgKafka.TopicConfig{
		NumPartitions:     m.cfg.TopicPartitions,
		ReplicationFactor: m.cfg.TopicReplication,
	}
	if err := pkgKafka.EnsureTopics(m.cfg.Brokers, topicCfg, m.topics...); err != nil {
		return err
	}

	client, err := pkgKafka.NewClient(pkgKafka.ClientConfig{
		Brokers:          m.cfg.Brokers,
		ProducerRetryMax: m.cfg.ProducerRetryMax,
	})
	if err != nil {
		return err
	}

	prod, err := pkgKafka.NewSyncProducerFromClient(client)
	if err != nil {
		client.Close()
		return err
	}

	m.mu.Lock()
	m.closeLocked()
	m.client = client
	m.prod = prod
	m.mu.Unlock()

	return nil
}

func (m *Manager) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prod != nil
}

// Producer returns the live producer, or ErrBrokerUnavailable while
// disconnected.
func (m *Manager) Producer() (sarama.SyncProducer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.prod == nil {
		return nil, ErrBrokerUnavailable
	}
	return m.prod, nil
}

func (m *Manager) ConsumerGroup(groupID string) (sarama.ConsumerGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, ErrBrokerUnavailable
	}
	return pkgKafka.NewConsumerGroupFromClient(groupID, m.client)
}

// NotifyFailure tears down the current connection and wakes the connect
// loop. Safe to call from any goroutine; duplicate notifications collapse
// into a single reconnect.
func (m *Manager) NotifyFailure(ctx context.Context, err error) {
	m.l.Warnf(ctx, "broker.Manager.NotifyFailure: connection lost: %v", err)

	m.mu.Lock()
	m.closeLocked()
	m.mu.Unlock()

	select {
	case m.retryCh <- struct{}{}:
	default:
	}
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()

	m.mu.Lock()
	m.closeLocked()
	m.mu.Unlock()
}

func (m *Manager) closeLocked() {
	if m.prod != nil {
		m.prod.Close()
		m.prod = nil
	}
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
}
