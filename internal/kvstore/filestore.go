package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/metrics"
)

// FileStore keeps one JSON document per key as <dir>/<key>.json. Every Set
// rewrites the key's file before returning, so a committed write survives a
// crash. WatchExternal makes writes from another process show up in this one,
// which is how two concurrently open frontends stay in sync.
type FileStore struct {
	dir string

	mu     sync.Mutex
	values map[string][]byte
	mtimes map[string]time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[string]map[int]func()
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{
		dir:    dir,
		values: make(map[string][]byte),
		mtimes: make(map[string]time.Time),
		subs:   make(map[string]map[int]func()),
	}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}

func (fs *FileStore) Get(key string) ([]byte, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if raw, ok := fs.values[key]; ok {
		return raw, true
	}

	raw, err := os.ReadFile(fs.path(key))
	if err != nil {
		return nil, false
	}
	fs.values[key] = raw
	if info, err := os.Stat(fs.path(key)); err == nil {
		fs.mtimes[key] = info.ModTime()
	}
	return raw, true
}

func (fs *FileStore) Set(key string, value []byte) error {
	fs.mu.Lock()
	if err := os.WriteFile(fs.path(key), value, 0o644); err != nil {
		fs.mu.Unlock()
		return fmt.Errorf("failed to persist %q: %w", key, err)
	}
	fs.values[key] = value
	if info, err := os.Stat(fs.path(key)); err == nil {
		fs.mtimes[key] = info.ModTime()
	}
	fs.mu.Unlock()

	metrics.StoreWritesTotal.WithLabelValues(key).Inc()
	fs.notify(key)
	return nil
}

func (fs *FileStore) Subscribe(key string, fn func()) func() {
	fs.subMu.Lock()
	defer fs.subMu.Unlock()

	id := fs.nextID
	fs.nextID++
	if fs.subs[key] == nil {
		fs.subs[key] = make(map[int]func())
	}
	fs.subs[key][id] = fn

	return func() {
		fs.subMu.Lock()
		defer fs.subMu.Unlock()
		delete(fs.subs[key], id)
	}
}

func (fs *FileStore) notify(key string) {
	fs.subMu.Lock()
	fns := make([]func(), 0, len(fs.subs[key]))
	for _, fn := range fs.subs[key] {
		fns = append(fns, fn)
	}
	fs.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// WatchExternal polls the backing files and reloads keys rewritten by another
// process, notifying subscribers. It blocks until ctx is cancelled. Keys this
// process has never touched are not watched; a frontend always reads its keys
// on startup, so that set is complete in practice.
func (fs *FileStore) WatchExternal(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, key := range fs.changedKeys() {
				zap.L().Debug("reloading externally modified key", zap.String("key", key))
				fs.notify(key)
			}
		}
	}
}

// changedKeys reloads any key whose file changed on disk since the cached
// copy and returns their names.
func (fs *FileStore) changedKeys() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var changed []string
	for key, cachedAt := range fs.mtimes {
		info, err := os.Stat(fs.path(key))
		if err != nil {
			continue
		}
		if !info.ModTime().After(cachedAt) {
			continue
		}
		raw, err := os.ReadFile(fs.path(key))
		if err != nil {
			continue
		}
		fs.mtimes[key] = info.ModTime()
		if bytes.Equal(raw, fs.values[key]) {
			continue
		}
		fs.values[key] = raw
		changed = append(changed, key)
	}
	return changed
}
