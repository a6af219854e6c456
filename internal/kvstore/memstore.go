package kvstore

import "sync"

// MemStore is an in-memory Store. The managers take the Store interface, so
// tests inject a MemStore instead of touching the filesystem.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	subMu  sync.Mutex
	nextID int
	subs   map[string]map[int]func()
}

func NewMemStore() *MemStore {
	return &MemStore{
		values: make(map[string][]byte),
		subs:   make(map[string]map[int]func()),
	}
}

func (ms *MemStore) Get(key string) ([]byte, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	raw, ok := ms.values[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}

func (ms *MemStore) Set(key string, value []byte) error {
	ms.mu.Lock()
	stored := make([]byte, len(value))
	copy(stored, value)
	ms.values[key] = stored
	ms.mu.Unlock()

	ms.notify(key)
	return nil
}

func (ms *MemStore) Subscribe(key string, fn func()) func() {
	ms.subMu.Lock()
	defer ms.subMu.Unlock()

	id := ms.nextID
	ms.nextID++
	if ms.subs[key] == nil {
		ms.subs[key] = make(map[int]func())
	}
	ms.subs[key][id] = fn

	return func() {
		ms.subMu.Lock()
		defer ms.subMu.Unlock()
		delete(ms.subs[key], id)
	}
}

func (ms *MemStore) notify(key string) {
	ms.subMu.Lock()
	fns := make([]func(), 0, len(ms.subs[key]))
	for _, fn := range ms.subs[key] {
		fns = append(fns, fn)
	}
	ms.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
