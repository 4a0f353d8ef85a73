package finance

import (
	"context"
	"testing"
	"time"

	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/digiprime/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockLedgerEntryRepository is a mock implementation of finance.LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindAll(ctx context.Context, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindIncomeReferenceIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[uuid.UUID]struct{}), args.Error(1)
}

func (m *MockLedgerEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) SaveBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) Count(ctx context.Context, filter finance.LedgerEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumByType(ctx context.Context) (map[finance.LedgerEntryType]decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[finance.LedgerEntryType]decimal.Decimal), args.Error(1)
}

// MockOrderRepository is a mock implementation of trade.OrderRepository
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

func completedOrder(t *testing.T, orderSN string, amount int64, orderDate time.Time) trade.Order {
	t.Helper()
	order, err := trade.NewOrder(
		orderSN, "buyer_"+orderSN, nil,
		decimal.NewFromInt(amount), 1,
		trade.OrderStatusCompleted, orderDate, trade.OrderSourceSync,
	)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return *order
}

func TestLedgerSyncService_BackfillsMissingEntries(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	ledgerRepo := new(MockLedgerEntryRepository)
	service := NewLedgerSyncService(orderRepo, ledgerRepo, zap.NewNop())

	orderDate := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ledgered := completedOrder(t, "SN-OLD", 10000, orderDate)
	unledgered := completedOrder(t, "SN-NEW", 25000, orderDate)

	orderRepo.On("FindByStatus", mock.Anything, trade.OrderStatusCompleted).
		Return([]trade.Order{ledgered, unledgered}, nil)
	ledgerRepo.On("FindIncomeReferenceIDs", mock.Anything).
		Return(map[uuid.UUID]struct{}{ledgered.ID: {}}, nil)
	ledgerRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*finance.LedgerEntry")).Return(nil)

	result, err := service.SyncFromOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.False(t, result.UpToDate)

	saved := ledgerRepo.Calls[1].Arguments.Get(1).([]*finance.LedgerEntry)
	require.Len(t, saved, 1)
	entry := saved[0]
	assert.Equal(t, finance.LedgerEntryTypeIncome, entry.Type)
	assert.Equal(t, finance.LedgerCategorySales, entry.Category)
	require.NotNil(t, entry.ReferenceID)
	assert.Equal(t, unledgered.ID, *entry.ReferenceID)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(25000)))
	// The entry is dated with the order date, not the backfill time
	assert.Equal(t, orderDate, entry.CreatedAt)
}

func TestLedgerSyncService_SecondRunIsUpToDate(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	ledgerRepo := new(MockLedgerEntryRepository)
	service := NewLedgerSyncService(orderRepo, ledgerRepo, zap.NewNop())

	order := completedOrder(t, "SN-200", 5000, time.Now())

	orderRepo.On("FindByStatus", mock.Anything, trade.OrderStatusCompleted).
		Return([]trade.Order{order}, nil)
	ledgerRepo.On("FindIncomeReferenceIDs", mock.Anything).
		Return(map[uuid.UUID]struct{}{order.ID: {}}, nil)

	result, err := service.SyncFromOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.True(t, result.UpToDate)
	assert.Equal(t, "Ledger already up to date", result.Message)
	ledgerRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestLedgerSyncService_NoCompletedOrders(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	ledgerRepo := new(MockLedgerEntryRepository)
	service := NewLedgerSyncService(orderRepo, ledgerRepo, zap.NewNop())

	orderRepo.On("FindByStatus", mock.Anything, trade.OrderStatusCompleted).
		Return([]trade.Order{}, nil)
	ledgerRepo.On("FindIncomeReferenceIDs", mock.Anything).
		Return(map[uuid.UUID]struct{}{}, nil)

	result, err := service.SyncFromOrders(context.Background())
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
}
