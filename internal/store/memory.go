package store

import (
	"context"
	"sync"
)

// MemoryKV is an in-process backend used by tests. FailReads and FailWrites
// let tests exercise the transport-error paths.
type MemoryKV struct {
	mu         sync.Mutex
	data       map[string]string
	FailReads  error
	FailWrites error
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return "", false, m.FailReads
	}
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}

// Raw returns the stored value for key, for assertions on persisted bytes.
func (m *MemoryKV) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

// Put stores a raw value directly, bypassing the codec.
func (m *MemoryKV) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
