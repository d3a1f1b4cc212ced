package order

import (
	"context"
	"sync"
)

type InMemorySink struct {
	mu     sync.Mutex
	orders []*OrderRecord
	keys   map[string]bool

	failErr   error
	failTimes int
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{keys: make(map[string]bool)}
}

func (s *InMemorySink) Append(ctx context.Context, record *OrderRecord, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failTimes > 0 {
		s.failTimes--
		return s.failErr
	}
	if key != "" {
		if s.keys[key] {
			return ErrDuplicateOrder
		}
		s.keys[key] = true
	}
	s.orders = append(s.orders, record)
	return nil
}

func (s *InMemorySink) List(ctx context.Context, limit int) ([]StoredOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StoredOrder, 0, len(s.orders))
	for i := len(s.orders) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, storedFrom(s.orders[i]))
	}
	return out, nil
}

// FailNext makes the next n appends return err.
func (s *InMemorySink) FailNext(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTimes = n
	s.failErr = err
}

func (s *InMemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
