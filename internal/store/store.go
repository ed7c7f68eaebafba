// Package store persists the three entity collections (products, customers,
// orders) as whole-collection JSON values in a key-value backend, mirroring
// the load-mutate-save contract of the admin panel it serves. Every write
// replaces the full collection for one entity type; there is no partial write
// and no cross-collection transaction. A per-collection mutex serializes the
// load-mutate-save cycles, making the whole collection the unit of mutual
// exclusion. Cross-collection sequences (order creation plus its stats
// updates) are not atomic.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"pickle-admin/internal/util"

	"go.uber.org/zap"
)

// ErrNotFound is returned by update operations when no record carries the
// requested id. Check with errors.Is.
var ErrNotFound = errors.New("record not found")

// KV is the synchronous key-value medium beneath the store. Get reports
// presence separately from transport errors so a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Store reads and writes entity collections through a KV backend.
type Store struct {
	kv     KV
	prefix string
	logger *zap.Logger

	productsMu  sync.Mutex
	customersMu sync.Mutex
	ordersMu    sync.Mutex
}

// New creates a store over the given backend. prefix namespaces the
// collection keys so several panels can share one backend.
func New(kv KV, prefix string) *Store {
	return &Store{
		kv:     kv,
		prefix: prefix,
		logger: util.GetLogger(),
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) key(collection string) string {
	return fmt.Sprintf("%s:%s", s.prefix, collection)
}

// load reads a collection into dst, which must be a pointer to a slice.
// A missing key or a value that fails to decode degrades to an empty
// collection: dst is left untouched, the failure is logged and counted, and
// no error is returned. Only transport errors from the backend propagate.
func (s *Store) load(ctx context.Context, collection string, dst interface{}) error {
	raw, ok, err := s.kv.Get(ctx, s.key(collection))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", collection, err)
	}
	if !ok {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		util.StorageReadFailures.WithLabelValues(collection).Inc()
		s.logger.Warn("Corrupt collection value, falling back to empty",
			zap.String("collection", collection),
			zap.Error(err))
		return nil
	}
	return nil
}

// save serializes src and replaces the persisted value for the collection.
func (s *Store) save(ctx context.Context, collection string, src interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		util.StorageWriteFailures.WithLabelValues(collection).Inc()
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}

	if err := s.kv.Set(ctx, s.key(collection), string(raw)); err != nil {
		util.StorageWriteFailures.WithLabelValues(collection).Inc()
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return nil
}
