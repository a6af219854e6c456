// Package run manages the lifecycle of ordering sessions. A run is created
// by "start run", archived by "end run" and never deleted.
package run

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/kvstore"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/model"
)

// StorageKey is where the full run collection lives in the store.
const StorageKey = "runs"

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

// Active returns the current user's non-archived run, or nil. When more than
// one exists the first in storage order wins.
func (m *Manager) Active() *model.Run {
	for _, r := range kvstore.Read(m.store, StorageKey, []model.Run{}) {
		if r.UserID == m.userID && r.Active() {
			run := r
			return &run
		}
	}
	return nil
}

// Start creates a new run for the current user. Any run of the user still
// active at this point is archived in the same write, so at most one active
// run exists per user.
func (m *Manager) Start() (model.Run, error) {
	run := model.Run{
		ID:        m.newID(),
		UserID:    m.userID,
		CreatedAt: m.timestamp(),
	}

	err := kvstore.Update(m.store, StorageKey, []model.Run{}, func(runs []model.Run) []model.Run {
		next := make([]model.Run, len(runs), len(runs)+1)
		copy(next, runs)
		for i := range next {
			if next[i].UserID == m.userID && next[i].Active() {
				archivedAt := run.CreatedAt
				next[i].ArchivedAt = &archivedAt
			}
		}
		return append(next, run)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("start_run").Inc()
		return model.Run{}, fmt.Errorf("failed to start run: %w", err)
	}

	metrics.RunsStartedTotal.Inc()
	m.logger.Info("run started", zap.String("run_id", run.ID), zap.String("user_id", m.userID))
	return run, nil
}

// Archive stamps archivedAt on the matching run. All other runs are left
// untouched; an unknown id is a silent no-op.
func (m *Manager) Archive(runID string) error {
	archivedAt := m.timestamp()

	err := kvstore.Update(m.store, StorageKey, []model.Run{}, func(runs []model.Run) []model.Run {
		next := make([]model.Run, len(runs))
		copy(next, runs)
		for i := range next {
			if next[i].ID == runID {
				next[i].ArchivedAt = &archivedAt
			}
		}
		return next
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("archive_run").Inc()
		return fmt.Errorf("failed to archive run: %w", err)
	}

	metrics.RunsArchivedTotal.Inc()
	m.logger.Info("run archived", zap.String("run_id", runID))
	return nil
}
