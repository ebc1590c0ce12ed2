package state

import (
	"context"
	"fmt"

	"github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps state in a bounded in-process LRU. It survives screen
// recreation within one process only.
type MemoryStore struct {
	lru *lru.Cache[string, string]
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 1
	}

	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &MemoryStore{lru: cache}, nil
}

func (m *MemoryStore) Save(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.lru.Add(key, value)
	return nil
}

func (m *MemoryStore) Restore(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	value, ok := m.lru.Get(key)
	return value, ok, nil
}

// Clear removes all saved state.
func (m *MemoryStore) Clear() {
	m.lru.Purge()
}
