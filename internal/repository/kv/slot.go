package kv

import "context"

// SlotStore is a single key of a Repository.
type SlotStore struct {
	repo Repository
	key  string
}

// Slot binds key so callers only deal with the value.
func Slot(repo Repository, key string) *SlotStore {
	return &SlotStore{repo: repo, key: key}
}

func (s *SlotStore) Key() string {
	return s.key
}

func (s *SlotStore) Load(ctx context.Context) ([]byte, error) {
	return s.repo.Get(ctx, s.key)
}

func (s *SlotStore) Save(ctx context.Context, value []byte) error {
	return s.repo.Put(ctx, s.key, value)
}

func (s *SlotStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}

// Ping forwards to the repository when it can be pinged.
func (s *SlotStore) Ping(ctx context.Context) error {
	if p, ok := s.repo.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
