package kv

import (
	"context"
	"slices"
	"sync"

	"guitarla/internal/domain"
)

type memoryRepo struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory returns a process-local repository. Values do not survive a restart.
func NewMemory() Repository {
	return &memoryRepo{m: make(map[string][]byte)}
}

func (r *memoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (r *memoryRepo) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.m[key] = slices.Clone(value)
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.m, key)
	r.mu.Unlock()
	return nil
}
