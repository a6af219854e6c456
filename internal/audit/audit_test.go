package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureProducer collects published events in memory.
type captureProducer struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (p *captureProducer) SendMessage(_ context.Context, _, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, value)
	return nil
}

func (p *captureProducer) Close() error { return nil }

func (p *captureProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

func (p *captureProducer) actions(t *testing.T) []string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.msgs))
	for i, raw := range p.msgs {
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		out[i] = event.Action
	}
	return out
}

func testEvent(n int) Event {
	return Event{
		Timestamp: time.Date(2025, 6, 1, 9, 0, n, 0, time.UTC),
		Action:    fmt.Sprintf("event_%d", n),
		Entity:    "order",
		UserID:    "local",
	}
}

func TestBatchBySize(t *testing.T) {
	producer := &captureProducer{}
	m := NewManager(producer, zap.NewNop(), 2, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	for i := 0; i < 3; i++ {
		m.Record(ctx, testEvent(i))
	}

	// the full batch flushes without waiting for the hour-long timeout
	require.Eventually(t, func() bool { return producer.count() == 3 },
		2*time.Second, 10*time.Millisecond)

	m.Shutdown(context.Background())
	assert.Equal(t, 3, producer.count())
}

func TestBatchByTimeout(t *testing.T) {
	producer := &captureProducer{}
	m := NewManager(producer, zap.NewNop(), 2, 10, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.Record(ctx, testEvent(0))
	m.Record(ctx, testEvent(1))

	// two events never fill the batch of ten; the timer flushes them
	require.Eventually(t, func() bool { return producer.count() == 2 },
		2*time.Second, 10*time.Millisecond)
}

func TestShutdownDrainsQueuedEvents(t *testing.T) {
	producer := &captureProducer{}
	// batch of fifty and an hour-long timeout: nothing flushes on its own,
	// every event must leave through the shutdown drain
	m := NewManager(producer, zap.NewNop(), 2, 50, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	const recorded = 7
	for i := 0; i < recorded; i++ {
		m.Record(ctx, testEvent(i))
	}

	m.Shutdown(context.Background())

	assert.Equal(t, recorded, producer.count())
	assert.ElementsMatch(t,
		[]string{"event_0", "event_1", "event_2", "event_3", "event_4", "event_5", "event_6"},
		producer.actions(t))
}

func TestRecordAfterShutdownPublishesInline(t *testing.T) {
	producer := &captureProducer{}
	m := NewManager(producer, zap.NewNop(), 1, 5, time.Hour)

	ctx := context.Background()
	m.Start(ctx)
	m.Shutdown(ctx)

	before := producer.count()
	m.Record(ctx, testEvent(99))
	assert.Equal(t, before+1, producer.count())
}

func TestShutdownIsIdempotent(t *testing.T) {
	producer := &captureProducer{}
	m := NewManager(producer, zap.NewNop(), 1, 5, time.Hour)

	ctx := context.Background()
	m.Start(ctx)
	m.Record(ctx, testEvent(0))

	m.Shutdown(ctx)
	m.Shutdown(ctx)

	assert.Equal(t, 1, producer.count())
}
