// Package order manages the order collection. Orders for every run share one
// flat storage array whose order drives display order, so all mutations go
// through whole-collection functional updates.
package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/kvstore"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
)

// StorageKey is where the full order collection lives in the store.
const StorageKey = "orders"

type Manager struct {
	store  kvstore.Store
	logger *zap.Logger

	newID func() string
	clock func() time.Time
}

func NewManager(store kvstore.Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
		clock:  time.Now,
	}
}

func (m *Manager) timestamp() string {
	return m.clock().UTC().Format(model.TimestampLayout)
}

// Orders returns the run's subsequence of the collection in storage order.
// An empty runID yields an empty list.
func (m *Manager) Orders(runID string) []model.Order {
	if runID == "" {
		return []model.Order{}
	}
	visible := []model.Order{}
	for _, o := range kvstore.Read(m.store, StorageKey, []model.Order{}) {
		if o.RunID == runID {
			visible = append(visible, o)
		}
	}
	return visible
}

// Add appends a new order for the run. With no run it is a no-op and returns
// nil.
func (m *Manager) Add(runID string, form model.OrderForm) (*model.Order, error) {
	if runID == "" {
		return nil, nil
	}

	now := m.timestamp()
	order := model.Order{
		ID:        m.newID(),
		RunID:     runID,
		OrderForm: form,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := kvstore.Update(m.store, StorageKey, []model.Order{}, func(orders []model.Order) []model.Order {
		next := make([]model.Order, len(orders), len(orders)+1)
		copy(next, orders)
		return append(next, order)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("add_order").Inc()
		return nil, fmt.Errorf("failed to add order: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	m.logger.Info("order added",
		zap.String("order_id", order.ID),
		zap.String("run_id", runID),
		zap.String("person", order.PersonName))
	return &order, nil
}

// Update merges the patch into the matching order and refreshes updatedAt.
// Orders with other ids, including other runs', are untouched. An unknown id
// is a silent no-op.
func (m *Manager) Update(orderID string, patch model.OrderPatch) error {
	now := m.timestamp()

	err := kvstore.Update(m.store, StorageKey, []model.Order{}, func(orders []model.Order) []model.Order {
		next := make([]model.Order, len(orders))
		copy(next, orders)
		for i := range next {
			if next[i].ID == orderID {
				next[i].OrderForm = patch.Apply(next[i].OrderForm)
				next[i].UpdatedAt = now
			}
		}
		return next
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("update_order").Inc()
		return fmt.Errorf("failed to update order: %w", err)
	}

	metrics.OrdersUpdatedTotal.Inc()
	m.logger.Info("order updated", zap.String("order_id", orderID))
	return nil
}

// Remove deletes the matching order from the collection.
func (m *Manager) Remove(orderID string) error {
	err := kvstore.Update(m.store, StorageKey, []model.Order{}, func(orders []model.Order) []model.Order {
		next := make([]model.Order, 0, len(orders))
		for _, o := range orders {
			if o.ID != orderID {
				next = append(next, o)
			}
		}
		return next
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("remove_order").Inc()
		return fmt.Errorf("failed to remove order: %w", err)
	}

	metrics.OrdersDeletedTotal.Inc()
	m.logger.Info("order removed", zap.String("order_id", orderID))
	return nil
}

// Reorder moves the element at logical position from to position to within
// the run's subsequence. Entries of other runs interleaved in the storage
// array keep both their relative order and their exact slots: slot i of the
// run's index list always holds the run's i-th visible order, only which
// order occupies each slot changes. Out-of-range positions and an empty
// runID are silent no-ops.
func (m *Manager) Reorder(runID string, from, to int) error {
	if runID == "" {
		return nil
	}

	err := kvstore.Update(m.store, StorageKey, []model.Order{}, func(orders []model.Order) []model.Order {
		var slots []int
		for i, o := range orders {
			if o.RunID == runID {
				slots = append(slots, i)
			}
		}
		if from < 0 || from >= len(slots) || to < 0 || to >= len(slots) {
			return orders
		}

		moved := moveElement(slots, from, to)
		next := make([]model.Order, len(orders))
		copy(next, orders)
		for slot, globalIdx := range moved {
			next[slots[slot]] = orders[globalIdx]
		}
		return next
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("reorder_orders").Inc()
		return fmt.Errorf("failed to reorder orders: %w", err)
	}

	metrics.OrdersReorderedTotal.Inc()
	m.logger.Debug("orders reordered",
		zap.String("run_id", runID), zap.Int("from", from), zap.Int("to", to))
	return nil
}

// moveElement removes list[from] and reinserts it at position to, shifting
// the elements in between by one.
func moveElement(list []int, from, to int) []int {
	out := make([]int, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)

	out = append(out, 0)
	copy(out[to+1:], out[to:])
	out[to] = list[from]
	return out
}
