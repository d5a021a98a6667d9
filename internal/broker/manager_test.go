package broker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviereel/ratings-pipeline/config"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

func testKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:          []string{"localhost:9092"},
		ProducerRetryMax: 3,
		ReconnectWait:    5 * time.Millisecond,
		TopicPartitions:  1,
		TopicReplication: 1,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(testKafkaConfig(), []string{"ratings.submitted"}, logger.InitializeTestZapLogger())
}

// connectMock swaps a mock producer in the way dial does.
func (m *Manager) connectMock(t *testing.T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.prod = mocks.NewSyncProducer(t, nil)
}

func TestManager_UnavailableBeforeConnect(t *testing.T) {
	m := newTestManager(t)

	assert.False(t, m.IsReady())

	_, err := m.Producer()
	assert.ErrorIs(t, err, ErrBrokerUnavailable)

	_, err = m.ConsumerGroup("ratings-worker")
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
}

func TestManager_StartRetriesUntilConnected(t *testing.T) {
	m := newTestManager(t)

	var attempts atomic.Int32
	m.dialFn = func() error {
		if attempts.Add(1) < 3 {
			return errors.New("dial tcp 127.0.0.1:9092: connection refused")
		}
		m.connectMock(t)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	defer m.Stop()

	assert.Eventually(t, m.IsReady, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, attempts.Load(), int32(3))

	prod, err := m.Producer()
	require.NoError(t, err)
	assert.NotNil(t, prod)
}

func TestManager_NotifyFailureReconnects(t *testing.T) {
	m := newTestManager(t)

	var attempts atomic.Int32
	m.dialFn = func() error {
		attempts.Add(1)
		m.connectMock(t)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	defer m.Stop()

	assert.Eventually(t, m.IsReady, time.Second, time.Millisecond)
	require.Equal(t, int32(1), attempts.Load())

	m.NotifyFailure(ctx, errors.New("EOF"))

	assert.Eventually(t, func() bool {
		return attempts.Load() >= 2 && m.IsReady()
	}, time.Second, time.Millisecond)
}

func TestManager_ConnectSingleAttempt(t *testing.T) {
	m := newTestManager(t)

	dialErr := errors.New("dial tcp 127.0.0.1:9092: connection refused")
	m.dialFn = func() error { return dialErr }

	assert.ErrorIs(t, m.Connect(), dialErr)
	assert.False(t, m.IsReady())

	m.dialFn = func() error {
		m.connectMock(t)
		return nil
	}

	require.NoError(t, m.Connect())
	assert.True(t, m.IsReady())

	m.Stop()
	assert.False(t, m.IsReady())
}

func TestManager_StopEndsRetryLoop(t *testing.T) {
	m := newTestManager(t)

	m.dialFn = func() error {
		return errors.New("dial tcp 127.0.0.1:9092: connection refused")
	}

	m.Start(context.Background())

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not end the retry loop")
	}
}
