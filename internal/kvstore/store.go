package kvstore

import (
	"encoding/json"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
)

// Store is a persistent key-value store holding one JSON document per key.
// Writes are synchronously durable and notify subscribers of the key after
// the value has been committed. A write arriving from another process for
// the same key must also reach subscribers (see the driver docs).
type Store interface {
	// Get returns the raw JSON stored under key, or ok=false if absent.
	Get(key string) ([]byte, bool)
	// Set persists the raw JSON under key and notifies subscribers.
	Set(key string, value []byte) error
	// Subscribe registers fn to run after every committed write to key.
	// The returned function cancels the subscription.
	Subscribe(key string, fn func()) (cancel func())
}

// Read decodes the value under key into a value of type T. An absent key or
// malformed JSON yields fallback; decode failures are swallowed on purpose,
// the store never surfaces them to callers.
func Read[T any](s Store, key string, fallback T) T {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		metrics.StoreDecodeFailuresTotal.WithLabelValues(key).Inc()
		zap.L().Debug("discarding malformed stored value",
			zap.String("key", key), zap.Error(err))
		return fallback
	}
	return v
}

// Write serializes value and persists it under key.
func Write[T any](s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}

// Update applies fn to the current value under key (fallback if absent or
// malformed) and persists the result. The previous value is never mutated in
// place; fn must return a fresh value.
func Update[T any](s Store, key string, fallback T, fn func(T) T) error {
	return Write(s, key, fn(Read(s, key, fallback)))
}
