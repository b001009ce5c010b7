package usecase

import "sync"

// skuLocks hands out one mutex per canonical SKU so that every
// check-then-act stock mutation for a SKU is linearized, independent of
// the store's own atomicity. Locks are never removed; the catalog is
// bounded by real-world SKU counts.
type skuLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSKULocks() *skuLocks {
	return &skuLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *skuLocks) of(sku string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sku]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sku] = l
	}
	return l
}
