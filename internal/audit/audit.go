// Package audit records every collection mutation as an event and ships
// batches of events to a producer on a small worker pool.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is one audited mutation.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions.
const (
	ActionRunStarted      = "run_started"
	ActionRunArchived     = "run_archived"
	ActionOrderAdded      = "order_added"
	ActionOrderUpdated    = "order_updated"
	ActionOrderRemoved    = "order_removed"
	ActionOrdersReordered = "orders_reordered"
	ActionSavedCreated    = "saved_order_created"
	ActionSavedRemoved    = "saved_order_removed"
)

// Manager aggregates events into batches, by size or by timeout, and hands
// them to workers that publish through the producer.
type Manager struct {
	workerCount int
	batchSize   int
	timeout     time.Duration

	producer Producer
	logger   *zap.Logger

	inputChan  chan Event
	batchChan  chan []Event
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewManager(producer Producer, logger *zap.Logger, workerCount, batchSize int, timeout time.Duration) *Manager {
	return &Manager{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		producer:    producer,
		logger:      logger,
		inputChan:   make(chan Event, workerCount*batchSize*2),
		batchChan:   make(chan []Event, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}
}

// Record enqueues an event; when the pipeline is saturated or stopping the
// event is published inline so it is never lost.
func (m *Manager) Record(ctx context.Context, event Event) {
	select {
	case <-m.shutdownCh:
		// once stopped, always inline: the buffered send could otherwise
		// win the select and strand the event
		m.publish(context.Background(), []Event{event})
		return
	default:
	}

	select {
	case m.inputChan <- event:
	case <-ctx.Done():
		m.publish(ctx, []Event{event})
	case <-m.shutdownCh:
		m.publish(context.Background(), []Event{event})
	}
}

func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// a Record racing with shutdown can still win the send into
			// inputChan after the aggregator drained it
			for {
				select {
				case event := <-m.inputChan:
					m.publish(context.Background(), []Event{event})
				default:
					m.logger.Info("audit pipeline drained")
					return
				}
			}
		case <-ctx.Done():
			m.logger.Warn("audit pipeline shutdown interrupted")
		}
	})
}

func (m *Manager) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []Event
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if len(batch) > 0 {
			m.dispatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case event := <-m.inputChan:
			batch = append(batch, event)
			if len(batch) >= m.batchSize {
				m.dispatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			batch = m.drainInput(batch)
			return

		case <-m.shutdownCh:
			batch = m.drainInput(batch)
			return
		}
	}
}

// drainInput moves everything already accepted into the batch, so the
// aggregator's deferred dispatch flushes events queued at shutdown.
func (m *Manager) drainInput(batch []Event) []Event {
	for {
		select {
		case event := <-m.inputChan:
			batch = append(batch, event)
		default:
			return batch
		}
	}
}

func (m *Manager) dispatch(batch []Event) {
	batchCopy := make([]Event, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		// workers are behind, publish inline rather than block the caller
		m.publish(context.Background(), batchCopy)
	}
}

func (m *Manager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	for {
		select {
		case batch, ok := <-m.batchChan:
			if !ok {
				return
			}
			m.publish(ctx, batch)
		case <-ctx.Done():
			// drain what is already queued, then exit
			for {
				select {
				case batch, ok := <-m.batchChan:
					if !ok {
						return
					}
					m.publish(context.Background(), batch)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) publish(ctx context.Context, batch []Event) {
	for _, event := range batch {
		value, err := json.Marshal(event)
		if err != nil {
			m.logger.Error("failed to marshal audit event", zap.Error(err))
			continue
		}
		if err := m.producer.SendMessage(ctx, []byte(event.Action), value); err != nil {
			m.logger.Error("failed to publish audit event",
				zap.String("action", event.Action), zap.Error(err))
		}
	}
}
