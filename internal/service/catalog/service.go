package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"guitarla/internal/domain"
	"guitarla/internal/seed"
)

// Service is the read-only catalog. Items keep the order they were supplied in.
type Service struct {
	items []domain.Item
	byID  map[int]int
}

// New validates items: ids must be positive and unique, names non-empty and prices positive.
func New(items []domain.Item) (*Service, error) {
	if len(items) == 0 {
		return nil, errors.New("catalog is empty")
	}
	s := &Service{
		items: slices.Clone(items),
		byID:  make(map[int]int, len(items)),
	}
	for i, it := range s.items {
		if it.ID <= 0 {
			return nil, fmt.Errorf("item %d: id must be positive", i)
		}
		if _, dup := s.byID[it.ID]; dup {
			return nil, fmt.Errorf("item %d: duplicate id %d", i, it.ID)
		}
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("item %d: name required", it.ID)
		}
		if !it.Price.IsPositive() {
			return nil, fmt.Errorf("item %d: price must be positive", it.ID)
		}
		s.byID[it.ID] = i
	}
	return s, nil
}

// Default returns the built-in guitar collection.
func Default() (*Service, error) {
	items, err := seed.Guitars()
	if err != nil {
		return nil, err
	}
	return New(items)
}

func (s *Service) List() []domain.Item {
	return slices.Clone(s.items)
}

func (s *Service) Get(id int) (domain.Item, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return s.items[i], nil
}

func (s *Service) Len() int {
	return len(s.items)
}
