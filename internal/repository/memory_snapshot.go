package repository

import (
	"context"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/port"
)

type memorySnapshotStore struct {
	mu    sync.RWMutex
	store map[string]map[string]string
}

// NewMemorySnapshot returns a process-local store. Contents are lost on restart.
func NewMemorySnapshot() port.SnapshotStore {
	return &memorySnapshotStore{
		store: make(map[string]map[string]string),
	}
}

func (m *memorySnapshotStore) Get(_ context.Context, ownerID, key string) (string, bool, error) {
	if err := validateKey(ownerID, key); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.store[ownerID][key]
	return value, ok, nil
}

func (m *memorySnapshotStore) Set(_ context.Context, ownerID, key, value string) error {
	if err := validateKey(ownerID, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	owned, ok := m.store[ownerID]
	if !ok {
		owned = make(map[string]string)
		m.store[ownerID] = owned
	}
	owned[key] = value

	return nil
}
