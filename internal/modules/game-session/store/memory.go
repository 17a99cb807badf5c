package store

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps everything in a map. Updates are serialized and their
// writes are staged until fn returns without error.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Update(ctx context.Context, fn func(context.Context, KV) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{base: s.data, staged: make(map[string][]byte)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for k, v := range tx.staged {
		s.data[k] = v
	}

	return nil
}

func (s *MemoryStore) View(ctx context.Context, fn func(context.Context, KV) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, readOnlyKV{&memoryTx{base: s.data}})
}

func (s *MemoryStore) Close() error {
	return nil
}

type memoryTx struct {
	base   map[string][]byte
	staged map[string][]byte
}

func (t *memoryTx) Get(_ context.Context, key string) ([]byte, bool, error) {
	if v, found := t.staged[key]; found {
		return clone(v), true, nil
	}

	v, found := t.base[key]
	if !found {
		return nil, false, nil
	}

	return clone(v), true, nil
}

func (t *memoryTx) Put(_ context.Context, key string, value []byte) error {
	t.staged[key] = clone(value)
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
