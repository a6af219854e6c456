// Package saved manages reusable order templates ("usuals"). Templates are
// immutable once created: users delete and recreate rather than edit.
package saved

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/kvstore"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
)

// StorageKey is where the full saved-order collection lives in the store.
const StorageKey = "savedOrders"

type Manager struct {
	store  kvstore.Store
	userID string
	logger *zap.Logger

	newID func() string
	clock func() time.Time
}

func NewManager(store kvstore.Store, userID string, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		userID: userID,
		logger: logger,
		newID:  uuid.NewString,
		clock:  time.Now,
	}
}

func (m *Manager) timestamp() string {
	return m.clock().UTC().Format(model.TimestampLayout)
}

// SavedOrders returns the current user's templates in storage order.
func (m *Manager) SavedOrders() []model.SavedOrder {
	visible := []model.SavedOrder{}
	for _, s := range kvstore.Read(m.store, StorageKey, []model.SavedOrder{}) {
		if s.UserID == m.userID {
			visible = append(visible, s)
		}
	}
	return visible
}

// Save wraps the form data into a new template for the current user.
func (m *Manager) Save(form model.OrderForm) (model.SavedOrder, error) {
	now := m.timestamp()
	saved := model.SavedOrder{
		ID:        m.newID(),
		UserID:    m.userID,
		OrderData: form,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := kvstore.Update(m.store, StorageKey, []model.SavedOrder{}, func(templates []model.SavedOrder) []model.SavedOrder {
		next := make([]model.SavedOrder, len(templates), len(templates)+1)
		copy(next, templates)
		return append(next, saved)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("save_order").Inc()
		return model.SavedOrder{}, fmt.Errorf("failed to save order: %w", err)
	}

	metrics.SavedOrdersCreatedTotal.Inc()
	m.logger.Info("saved order created",
		zap.String("saved_id", saved.ID),
		zap.String("person", form.PersonName))
	return saved, nil
}

// Remove deletes the matching template. An unknown id is a silent no-op.
func (m *Manager) Remove(savedID string) error {
	err := kvstore.Update(m.store, StorageKey, []model.SavedOrder{}, func(templates []model.SavedOrder) []model.SavedOrder {
		next := make([]model.SavedOrder, 0, len(templates))
		for _, s := range templates {
			if s.ID != savedID {
				next = append(next, s)
			}
		}
		return next
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("remove_saved_order").Inc()
		return fmt.Errorf("failed to remove saved order: %w", err)
	}

	metrics.SavedOrdersDeletedTotal.Inc()
	m.logger.Info("saved order removed", zap.String("saved_id", savedID))
	return nil
}

// Reorder moves the template at logical position from to position to within
// the current user's subsequence, preserving other users' entries in both
// relative order and storage slots. Out-of-range positions are silent no-ops.
func (m *Manager) Reorder(from, to int) error {
	err := kvstore.Update(m.store, StorageKey, []model.SavedOrder{}, func(templates []model.SavedOrder) []model.SavedOrder {
		var slots []int
		for i, s := range templates {
			if s.UserID == m.userID {
				slots = append(slots, i)
			}
		}
		if from < 0 || from >= len(slots) || to < 0 || to >= len(slots) {
			return templates
		}

		moved := moveElement(slots, from, to)
		next := make([]model.SavedOrder, len(templates))
		copy(next, templates)
		for slot, globalIdx := range moved {
			next[slots[slot]] = templates[globalIdx]
		}
		return next
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("reorder_saved_orders").Inc()
		return fmt.Errorf("failed to reorder saved orders: %w", err)
	}

	m.logger.Debug("saved orders reordered", zap.Int("from", from), zap.Int("to", to))
	return nil
}

func moveElement(list []int, from, to int) []int {
	out := make([]int, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)

	out = append(out, 0)
	copy(out[to+1:], out[to:])
	out[to] = list[from]
	return out
}
