package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	syncapp "github.com/digiprime/backend/internal/application/sync"
	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/digiprime/backend/internal/domain/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository implements trade.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByExternalOrderSN(ctx context.Context, orderSN string) (*trade.Order, error) {
	args := m.Called(ctx, orderSN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus) ([]trade.Order, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindUnmatched(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerName string) ([]trade.Order, error) {
	args := m.Called(ctx, buyerName)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter trade.OrderFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// noopEventBus discards published events
type noopEventBus struct{}

func (noopEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return nil
}

// fakeIdempotencyStore is a map-backed shared.IdempotencyStore
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

func setupSyncRouter(orderRepo *MockOrderRepository, productRepo *MockProductRepository, maxBatchSize int) (*gin.Engine, *fakeIdempotencyStore) {
	gin.SetMode(gin.TestMode)

	service := syncapp.NewReconcileService(orderRepo, productRepo, noopEventBus{}, zap.NewNop())
	store := newFakeIdempotencyStore()
	h := NewSyncHandler(service, store, maxBatchSize, time.Hour, zap.NewNop())

	engine := gin.New()
	engine.POST("/sync/orders", h.SyncOrders)
	engine.GET("/sync/unmatched", h.ListUnmatched)
	return engine, store
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSyncHandler_RejectsNonArrayBody(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	engine, _ := setupSyncRouter(orderRepo, productRepo, 100)

	for _, body := range []string{
		`{"order_sn":"SN-1"}`,
		`{"orders": {"order_sn":"SN-1"}}`,
		`{"orders": null}`,
		`[{"order_sn":"SN-1"}]`,
	} {
		w := postJSON(t, engine, "/sync/orders", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	orderRepo.AssertNotCalled(t, "Save")
}

func TestSyncHandler_RejectsOversizedBatch(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	engine, _ := setupSyncRouter(orderRepo, productRepo, 1)

	body := `{"orders": [{"order_sn":"SN-1","buyer_name":"a"},{"order_sn":"SN-2","buyer_name":"b"}]}`
	w := postJSON(t, engine, "/sync/orders", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_ProcessesBatch(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	engine, _ := setupSyncRouter(orderRepo, productRepo, 100)

	product, err := catalog.NewProduct("Premium Plan", catalog.ProductTypeAccount, decimal.NewFromInt(150))
	require.NoError(t, err)
	productRepo.On("FindActive", mock.Anything).Return([]catalog.Product{*product}, nil)
	orderRepo.On("FindByExternalOrderSN", mock.Anything, "2408SHX1").Return(nil, shared.ErrNotFound)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	body := `{"orders": [{"order_sn":"2408SHX1","buyer_name":"buyer_one","item_name":"Premium Plan","order_status":"COMPLETED","total_amount":150}]}`
	w := postJSON(t, engine, "/sync/orders", body, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
			Stats   struct {
				Synced  int `json:"synced"`
				Skipped int `json:"skipped"`
				Failed  int `json:"failed"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Stats.Synced)
	orderRepo.AssertExpectations(t)
}

func TestSyncHandler_IdempotencyKeyShortCircuitsReplay(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	engine, _ := setupSyncRouter(orderRepo, productRepo, 100)

	productRepo.On("FindActive", mock.Anything).Return([]catalog.Product{}, nil).Once()
	orderRepo.On("FindByExternalOrderSN", mock.Anything, "SN-1").Return(nil, shared.ErrNotFound).Once()
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil).Once()

	body := `{"orders": [{"order_sn":"SN-1","buyer_name":"buyer_one"}]}`
	headers := map[string]string{IdempotencyKeyHeader: "batch-2024-08-21"}

	first := postJSON(t, engine, "/sync/orders", body, headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, engine, "/sync/orders", body, headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "already processed")

	// The Once() expectations above prove the second request never reached
	// the reconciler.
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestSyncHandler_ListUnmatched(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	engine, _ := setupSyncRouter(orderRepo, productRepo, 100)

	order, err := trade.NewOrder("SN-UNMAPPED", "buyer_one", nil, decimal.NewFromInt(80), 1, trade.OrderStatusPending, time.Now(), trade.OrderSourceSync)
	require.NoError(t, err)
	orderRepo.On("FindUnmatched", mock.Anything, mock.Anything).Return([]trade.Order{*order}, nil)

	req := httptest.NewRequest(http.MethodGet, "/sync/unmatched", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SN-UNMAPPED")
	assert.Contains(t, w.Body.String(), `"needs_mapping":true`)
}
