package catalog

import (
	"context"
	"testing"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
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

// MockEventBus is a mock implementation of shared.EventPublisher
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newService(repo *MockProductRepository, bus *MockEventBus) *ProductService {
	return NewProductService(repo, bus, zap.NewNop())
}

func TestProductService_CreateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	bus := new(MockEventBus)
	service := newService(repo, bus)

	repo.On("FindByName", mock.Anything, "Netflix Premium").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.CreateProduct(context.Background(), CreateProductRequest{
		Name:  "Netflix Premium",
		Type:  "ACCOUNT",
		Price: decimal.NewFromInt(35000),
	})

	require.NoError(t, err)
	assert.Equal(t, "Netflix Premium", resp.Name)
	assert.Equal(t, "ACCOUNT", resp.Type)
	assert.Equal(t, "active", resp.Status)
	repo.AssertExpectations(t)
}

func TestProductService_CreateProduct_DuplicateName(t *testing.T) {
	repo := new(MockProductRepository)
	bus := new(MockEventBus)
	service := newService(repo, bus)

	existing, err := catalog.NewProduct("Netflix Premium", catalog.ProductTypeAccount, decimal.NewFromInt(35000))
	require.NoError(t, err)
	repo.On("FindByName", mock.Anything, "Netflix Premium").Return(existing, nil)

	_, err = service.CreateProduct(context.Background(), CreateProductRequest{
		Name:  "Netflix Premium",
		Type:  "ACCOUNT",
		Price: decimal.NewFromInt(40000),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_NAME", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_CreateProduct_InvalidType(t *testing.T) {
	repo := new(MockProductRepository)
	bus := new(MockEventBus)
	service := newService(repo, bus)

	repo.On("FindByName", mock.Anything, "Something").Return(nil, shared.ErrNotFound)

	_, err := service.CreateProduct(context.Background(), CreateProductRequest{
		Name:  "Something",
		Type:  "SUBSCRIPTION",
		Price: decimal.NewFromInt(1000),
	})

	assert.Error(t, err)
}

func TestProductService_UpdateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	bus := new(MockEventBus)
	service := newService(repo, bus)

	product, err := catalog.NewProduct("Spotify", catalog.ProductTypeAccount, decimal.NewFromInt(20000))
	require.NoError(t, err)
	product.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("FindByName", mock.Anything, "Spotify Family").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, product).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.UpdateProduct(context.Background(), product.ID, UpdateProductRequest{
		Name:  "Spotify Family",
		Price: decimal.NewFromInt(25000),
	})

	require.NoError(t, err)
	assert.Equal(t, "Spotify Family", resp.Name)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(25000)))
}

func TestProductService_DeactivateAndActivate(t *testing.T) {
	repo := new(MockProductRepository)
	bus := new(MockEventBus)
	service := newService(repo, bus)

	product, err := catalog.NewProduct("Vidio Platinum", catalog.ProductTypeAccount, decimal.NewFromInt(15000))
	require.NoError(t, err)
	product.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, product).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.DeactivateProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	resp, err = service.ActivateProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	repo := new(MockProductRepository)
	bus := new(MockEventBus)
	service := newService(repo, bus)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := service.GetProduct(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
