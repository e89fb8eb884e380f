package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"guitarla/internal/domain"
)

// ErrPersist wraps failures of the persistence provider. When a save failed the
// in-memory cart has already been updated; when the stored cart could not be loaded
// the mutation was not applied.
var ErrPersist = errors.New("persist cart")

const saveTimeout = 5 * time.Second

// Persistence is the storage slot the cart is read from at startup and written to
// after every accepted mutation. Load returns domain.ErrNotFound when nothing was stored.
type Persistence interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type subscriber struct {
	id int
	fn func(domain.Cart)
}

// Store owns the cart. All mutations go through it and run one at a time,
// including the save and the subscriber callbacks.
type Store struct {
	mu      sync.Mutex
	cart    domain.Cart
	loaded  bool
	persist Persistence
	logger  *zap.Logger

	subsMu  sync.Mutex
	subs    []subscriber
	nextSub int
}

// Open loads the persisted cart. Missing or unreadable data yields an empty cart;
// in that case the empty cart is written back so the slot always holds a valid value.
// When storage cannot be reached the cart starts empty and mutations are rejected
// with ErrPersist until a later load succeeds, so the stored cart is never overwritten
// by one that was not read from it. Open never fails.
func Open(ctx context.Context, persist Persistence, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{persist: persist, logger: logger, cart: domain.Cart{}}

	rewrite, err := s.load(ctx)
	switch {
	case err != nil:
		logger.Error("load cart, mutations rejected until storage is reachable", zap.Error(err))
	case rewrite:
		s.writeBack(ctx)
	}
	return s
}

// load replaces the cart with the stored one. rewrite reports that the slot was
// missing or malformed and should be overwritten with the empty cart.
func (s *Store) load(ctx context.Context) (rewrite bool, err error) {
	raw, err := s.persist.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Info("no stored cart, starting empty")
		s.cart, s.loaded = domain.Cart{}, true
		return true, nil
	case err != nil:
		return false, err
	}
	c, err := Decode(raw)
	if err != nil {
		s.logger.Warn("stored cart is malformed, starting empty", zap.Error(err))
		s.cart, s.loaded = domain.Cart{}, true
		return true, nil
	}
	s.cart, s.loaded = c, true
	s.logger.Info("cart restored", zap.Int("lines", len(c)), zap.Int("items", c.ItemCount()))
	return false, nil
}

func (s *Store) writeBack(ctx context.Context) {
	if err := s.save(ctx, s.cart); err != nil {
		s.logger.Warn("write back empty cart", zap.Error(err))
	}
}

// Cart returns a snapshot of the current cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

// Subscribe registers fn to be called with the new cart after each accepted mutation.
// fn runs while the store is serialized and must not call back into the store.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) AddToCart(ctx context.Context, item domain.Item) error {
	return s.apply(ctx, "add", item.ID, func(c domain.Cart) (domain.Cart, bool) {
		return Add(c, item)
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, id int) error {
	return s.apply(ctx, "remove", id, func(c domain.Cart) (domain.Cart, bool) {
		return Remove(c, id)
	})
}

func (s *Store) IncreaseQuantity(ctx context.Context, id int) error {
	return s.apply(ctx, "increase", id, func(c domain.Cart) (domain.Cart, bool) {
		return Increase(c, id)
	})
}

func (s *Store) DecreaseQuantity(ctx context.Context, id int) error {
	return s.apply(ctx, "decrease", id, func(c domain.Cart) (domain.Cart, bool) {
		return Decrease(c, id)
	})
}

// ClearCart empties the cart. It is always accepted, even when the cart is already empty.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.apply(ctx, "clear", 0, func(domain.Cart) (domain.Cart, bool) {
		return domain.Cart{}, true
	})
}

func (s *Store) apply(ctx context.Context, op string, id int, fn func(domain.Cart) (domain.Cart, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.reload(ctx); err != nil {
			s.logger.Warn("cart not loaded, mutation rejected", zap.String("op", op), zap.Error(err))
			return fmt.Errorf("%w: load stored cart: %w", ErrPersist, err)
		}
	}

	next, changed := fn(s.cart)
	if !changed {
		s.logger.Debug("cart unchanged", zap.String("op", op), zap.Int("id", id))
		return nil
	}
	s.cart = next
	s.logger.Debug("cart changed",
		zap.String("op", op),
		zap.Int("id", id),
		zap.Int("lines", len(next)),
		zap.Int("items", next.ItemCount()),
	)

	err := s.save(ctx, next)
	if err != nil {
		s.logger.Error("save cart", zap.String("op", op), zap.Error(err))
	}
	s.notify(next)
	return err
}

// reload retries the initial load. A restored non-empty cart is published to subscribers.
func (s *Store) reload(ctx context.Context) error {
	rewrite, err := s.load(ctx)
	if err != nil {
		return err
	}
	if rewrite {
		s.writeBack(ctx)
	}
	if !s.cart.IsEmpty() {
		s.notify(s.cart)
	}
	return nil
}

// save ignores cancellation of ctx and is bounded by saveTimeout instead.
func (s *Store) save(ctx context.Context, c domain.Cart) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := s.persist.Save(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Store) notify(c domain.Cart) {
	s.subsMu.Lock()
	subs := slices.Clone(s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(slices.Clone(c))
	}
}
