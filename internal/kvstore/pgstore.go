package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/georgysavva/scany/pgxscan"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
)

const notifyChannel = "kv_changes"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGStore keeps each key's JSON document in a kv table. Cross-process change
// propagation rides on Postgres LISTEN/NOTIFY: every Set emits a notification
// on kv_changes, and Listen picks up notifications from other processes.
type PGStore struct {
	database *db.Database
	logger   *zap.Logger

	subMu  sync.Mutex
	nextID int
	subs   map[string]map[int]func()
}

func NewPGStore(ctx context.Context, database *db.Database, logger *zap.Logger) (*PGStore, error) {
	if _, err := database.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &PGStore{
		database: database,
		logger:   logger,
		subs:     make(map[string]map[int]func()),
	}, nil
}

func (ps *PGStore) Get(key string) ([]byte, bool) {
	var raw []byte
	err := ps.database.Get(context.Background(), &raw,
		"SELECT value FROM kv WHERE key = $1", key)
	if err != nil {
		if !pgxscan.NotFound(err) {
			ps.logger.Warn("kv read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (ps *PGStore) Set(key string, value []byte) error {
	ctx := context.Background()
	_, err := ps.database.Exec(ctx, `
        INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `, key, value)
	if err != nil {
		return fmt.Errorf("failed to persist %q: %w", key, err)
	}

	if _, err := ps.database.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, key); err != nil {
		ps.logger.Warn("kv notify failed", zap.String("key", key), zap.Error(err))
	}

	metrics.StoreWritesTotal.WithLabelValues(key).Inc()
	ps.notify(key)
	return nil
}

func (ps *PGStore) Subscribe(key string, fn func()) func() {
	ps.subMu.Lock()
	defer ps.subMu.Unlock()

	id := ps.nextID
	ps.nextID++
	if ps.subs[key] == nil {
		ps.subs[key] = make(map[int]func())
	}
	ps.subs[key][id] = fn

	return func() {
		ps.subMu.Lock()
		defer ps.subMu.Unlock()
		delete(ps.subs[key], id)
	}
}

func (ps *PGStore) notify(key string) {
	ps.subMu.Lock()
	fns := make([]func(), 0, len(ps.subs[key]))
	for _, fn := range ps.subs[key] {
		fns = append(fns, fn)
	}
	ps.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Listen blocks on the kv_changes channel and fans notifications from other
// processes out to subscribers. It reconnects on failure until ctx ends.
func (ps *PGStore) Listen(ctx context.Context) error {
	for {
		if err := ps.listenOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			ps.logger.Warn("kv listener disconnected, retrying", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func (ps *PGStore) listenOnce(ctx context.Context) error {
	conn, err := ps.database.GetPool().Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("failed to LISTEN: %w", err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		ps.logger.Debug("kv change notification", zap.String("key", notification.Payload))
		ps.notify(notification.Payload)
	}
}
