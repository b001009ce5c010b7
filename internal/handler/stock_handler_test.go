package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"
	"omnistock/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// ledgerStore is a minimal in-memory repository pair for handler tests.
type ledgerStore struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newLedgerStore(products ...model.Product) *ledgerStore {
	s := &ledgerStore{products: make(map[string]*model.Product)}
	for i := range products {
		p := products[i]
		p.SKU = model.NormalizeSKU(p.SKU)
		s.products[p.SKU] = &p
	}
	return s
}

func (s *ledgerStore) FindBySKU(_ context.Context, sku string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[model.NormalizeSKU(sku)]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return *p, nil
}

func (s *ledgerStore) List(_ context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Product{}
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

func (s *ledgerStore) Create(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.SKU = model.NormalizeSKU(p.SKU)
	s.products[p.SKU] = &p
	return p, nil
}

func (s *ledgerStore) Update(_ context.Context, _ model.Product) error { return nil }

func (s *ledgerStore) SoftDelete(_ context.Context, _ string) error { return nil }

func (s *ledgerStore) SetStock(_ context.Context, sku string, newStock int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[model.NormalizeSKU(sku)]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = newStock
	p.LastSyncedAt = time.Now()
	return nil
}

func (s *ledgerStore) DecreaseStockIfEnough(_ context.Context, sku string, qty int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[model.NormalizeSKU(sku)]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	p.LastSyncedAt = time.Now()
	return true, nil
}

func (s *ledgerStore) IncreaseStock(_ context.Context, sku string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[model.NormalizeSKU(sku)]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock += qty
	p.LastSyncedAt = time.Now()
	return nil
}

func (s *ledgerStore) TouchLastSynced(_ context.Context, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[model.NormalizeSKU(sku)]
	if !ok {
		return repo.ErrNotFound
	}
	p.LastSyncedAt = time.Now()
	return nil
}

func (s *ledgerStore) CreateAdjustment(_ context.Context, _ model.InventoryAdjustment) error {
	return nil
}

func (s *ledgerStore) Statistics(_ context.Context, threshold int64) (repo.StockStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats repo.StockStatistics
	for _, p := range s.products {
		stats.TotalProducts++
		stats.TotalStock += p.Stock
		if p.Stock > 0 {
			stats.ProductsWithStock++
		} else {
			stats.ProductsOutOfStock++
		}
		if p.Stock > 0 && p.Stock <= threshold {
			stats.LowStockProducts++
		}
	}
	return stats, nil
}

func newStockHandlerFixture(products ...model.Product) (*StockHandler, *ledgerStore) {
	store := newLedgerStore(products...)
	uc := usecase.NewStockUsecase(store, store, nil)
	return NewStockHandler(uc), store
}

func doJSON(method, path, body string, params map[string]string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)
	return rec
}

func TestStockHandler_Get(t *testing.T) {
	h, _ := newStockHandlerFixture(model.Product{
		SKU:      "PROD-001",
		Stock:    7,
		Channels: []string{model.ChannelShopify},
	})

	rec := doJSON(http.MethodGet, "/api/stock/PROD-001", "", map[string]string{"sku": "PROD-001"}, h.Get)
	assert.Equal(t, http.StatusOK, rec.Code)

	var view map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "PROD-001", view["sku"])
	assert.Equal(t, float64(7), view["stock"])
}

func TestStockHandler_Get_NotFound(t *testing.T) {
	h, _ := newStockHandlerFixture()

	rec := doJSON(http.MethodGet, "/api/stock/GHOST-1", "", map[string]string{"sku": "GHOST-1"}, h.Get)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockHandler_Set_NegativeRejected(t *testing.T) {
	h, store := newStockHandlerFixture(model.Product{SKU: "PROD-001", Stock: 7})

	rec := doJSON(http.MethodPut, "/api/stock/PROD-001", `{"stock":-1}`, map[string]string{"sku": "PROD-001"}, h.Set)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p, _ := store.FindBySKU(context.Background(), "PROD-001")
	assert.Equal(t, int64(7), p.Stock)
}

func TestStockHandler_Decrease_Insufficient(t *testing.T) {
	h, _ := newStockHandlerFixture(model.Product{SKU: "PROD-001", Stock: 2})

	rec := doJSON(http.MethodPost, "/api/stock/PROD-001/decrease", `{"quantity":5}`, map[string]string{"sku": "PROD-001"}, h.Decrease)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "insufficient stock")
}

func TestStockHandler_Increase(t *testing.T) {
	h, store := newStockHandlerFixture(model.Product{SKU: "PROD-001", Stock: 2})

	rec := doJSON(http.MethodPost, "/api/stock/PROD-001/increase", `{"quantity":3}`, map[string]string{"sku": "PROD-001"}, h.Increase)
	assert.Equal(t, http.StatusOK, rec.Code)

	p, _ := store.FindBySKU(context.Background(), "PROD-001")
	assert.Equal(t, int64(5), p.Stock)
}

func TestStockHandler_LowStock_InvalidThreshold(t *testing.T) {
	h, _ := newStockHandlerFixture()

	rec := doJSON(http.MethodGet, "/api/stock/low?threshold=abc", "", nil, h.LowStock)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockHandler_Statistics(t *testing.T) {
	h, _ := newStockHandlerFixture(
		model.Product{SKU: "PROD-001", Stock: 2},
		model.Product{SKU: "PROD-002", Stock: 0},
	)

	rec := doJSON(http.MethodGet, "/api/stock/statistics", "", nil, h.Statistics)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats repo.StockStatistics
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ProductsOutOfStock)
}
