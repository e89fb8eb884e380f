package kv

import "context"

// Repository stores opaque values under string keys.
// Get returns domain.ErrNotFound when the key has never been written or was deleted.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by repositories backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}
