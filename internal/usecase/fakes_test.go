package usecase

import (
	"context"
	"sync"
	"time"

	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"
)

// memStore is a stateful in-memory stand-in for both repositories. The
// concurrency tests need real state behind the usecase, which a
// call-recording mock cannot provide.
type memStore struct {
	mu          sync.Mutex
	products    map[string]*model.Product
	adjustments []model.InventoryAdjustment
	nextID      int64
}

func newMemStore(products ...model.Product) *memStore {
	s := &memStore{products: make(map[string]*model.Product), nextID: 1}
	for _, p := range products {
		cp := p
		cp.SKU = model.NormalizeSKU(cp.SKU)
		if cp.ID == 0 {
			cp.ID = s.nextID
			s.nextID++
		}
		s.products[cp.SKU] = &cp
	}
	return s
}

func (s *memStore) get(sku string) (*model.Product, bool) {
	p, ok := s.products[model.NormalizeSKU(sku)]
	return p, ok
}

// stock returns the current quantity, for assertions.
func (s *memStore) stock(sku string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return -1
	}
	return p.Stock
}

func (s *memStore) lastSyncedAt(sku string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return time.Time{}
	}
	return p.LastSyncedAt
}

// ProductRepository

func (s *memStore) FindBySKU(_ context.Context, sku string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return *p, nil
}

func (s *memStore) List(_ context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Channel != "" && !p.ListedOn(q.Channel) {
			continue
		}
		if q.MaxStock != nil && p.Stock > *q.MaxStock {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.SKU = model.NormalizeSKU(p.SKU)
	p.ID = s.nextID
	s.nextID++
	s.products[p.SKU] = &p
	return p, nil
}

func (s *memStore) Update(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.get(p.SKU)
	if !ok {
		return repo.ErrNotFound
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Channels = p.Channels
	existing.ImageURL = p.ImageURL
	return nil
}

func (s *memStore) SoftDelete(_ context.Context, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sku = model.NormalizeSKU(sku)
	if _, ok := s.products[sku]; !ok {
		return repo.ErrNotFound
	}
	delete(s.products, sku)
	return nil
}

// InventoryRepository

func (s *memStore) SetStock(_ context.Context, sku string, newStock int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = newStock
	p.LastSyncedAt = time.Now()
	return nil
}

func (s *memStore) DecreaseStockIfEnough(_ context.Context, sku string, qty int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return false, nil
	}
	if p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	p.LastSyncedAt = time.Now()
	return true, nil
}

func (s *memStore) IncreaseStock(_ context.Context, sku string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock += qty
	p.LastSyncedAt = time.Now()
	return nil
}

func (s *memStore) TouchLastSynced(_ context.Context, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(sku)
	if !ok {
		return repo.ErrNotFound
	}
	p.LastSyncedAt = time.Now()
	return nil
}

func (s *memStore) CreateAdjustment(_ context.Context, adj model.InventoryAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustments = append(s.adjustments, adj)
	return nil
}

func (s *memStore) Statistics(_ context.Context, lowStockThreshold int64) (repo.StockStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats repo.StockStatistics
	first := true
	for _, p := range s.products {
		stats.TotalProducts++
		stats.TotalStock += p.Stock
		if p.Stock > 0 {
			stats.ProductsWithStock++
		} else {
			stats.ProductsOutOfStock++
		}
		if p.Stock > 0 && p.Stock <= lowStockThreshold {
			stats.LowStockProducts++
		}
		if first || p.Stock > stats.MaxStock {
			stats.MaxStock = p.Stock
		}
		if first || p.Stock < stats.MinStock {
			stats.MinStock = p.Stock
		}
		first = false
	}
	if stats.TotalProducts > 0 {
		stats.AverageStock = float64(stats.TotalStock) / float64(stats.TotalProducts)
	}
	return stats, nil
}
