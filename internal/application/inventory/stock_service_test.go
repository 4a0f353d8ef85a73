package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStockAccountRepository is a mock implementation of inventory.StockAccountRepository
type MockStockAccountRepository struct {
	mock.Mock
}

func (m *MockStockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockAccount), args.Error(1)
}

func (m *MockStockAccountRepository) FindByProduct(ctx context.Context, productID uuid.UUID, status *inventory.StockAccountStatus) ([]inventory.StockAccount, error) {
	args := m.Called(ctx, productID, status)
	return args.Get(0).([]inventory.StockAccount), args.Error(1)
}

func (m *MockStockAccountRepository) FindFirstAvailable(ctx context.Context, productID uuid.UUID) (*inventory.StockAccount, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockAccount), args.Error(1)
}

func (m *MockStockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockAccount, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockAccount), args.Error(1)
}

func (m *MockStockAccountRepository) Save(ctx context.Context, account *inventory.StockAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStockAccountRepository) SaveBatch(ctx context.Context, accounts []*inventory.StockAccount) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockStockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockAccountRepository) CountAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockCreditRepository is a mock implementation of inventory.StockCreditRepository
type MockStockCreditRepository struct {
	mock.Mock
}

func (m *MockStockCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCredit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCredit), args.Error(1)
}

func (m *MockStockCreditRepository) FindByProduct(ctx context.Context, productID uuid.UUID, status *inventory.StockCreditStatus) ([]inventory.StockCredit, error) {
	args := m.Called(ctx, productID, status)
	return args.Get(0).([]inventory.StockCredit), args.Error(1)
}

func (m *MockStockCreditRepository) FindFirstAvailable(ctx context.Context, productID uuid.UUID) (*inventory.StockCredit, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCredit), args.Error(1)
}

func (m *MockStockCreditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockCredit, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockCredit), args.Error(1)
}

func (m *MockStockCreditRepository) Save(ctx context.Context, credit *inventory.StockCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockStockCreditRepository) SaveBatch(ctx context.Context, credits []*inventory.StockCredit) error {
	args := m.Called(ctx, credits)
	return args.Error(0)
}

func (m *MockStockCreditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockCreditRepository) CountAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

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

// fakeCipher is a trivially reversible stand-in for the AES cipher
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type stockFixture struct {
	accountRepo *MockStockAccountRepository
	creditRepo  *MockStockCreditRepository
	productRepo *MockProductRepository
	bus         *MockEventBus
	service     *StockService
}

func newStockFixture() *stockFixture {
	f := &stockFixture{
		accountRepo: new(MockStockAccountRepository),
		creditRepo:  new(MockStockCreditRepository),
		productRepo: new(MockProductRepository),
		bus:         new(MockEventBus),
	}
	f.service = NewStockService(f.accountRepo, f.creditRepo, f.productRepo, fakeCipher{}, f.bus, zap.NewNop())
	return f
}

func accountProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Netflix Premium", catalog.ProductTypeAccount, decimal.NewFromInt(35000))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func creditProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("ML Diamonds 100", catalog.ProductTypeCredit, decimal.NewFromInt(25000))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestStockService_AddAccounts_EncryptsPasswords(t *testing.T) {
	f := newStockFixture()
	product := accountProduct(t)

	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.productRepo.On("Save", mock.Anything, product).Return(nil)
	f.accountRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*inventory.StockAccount")).Return(nil)

	responses, err := f.service.AddAccounts(context.Background(), AddAccountsRequest{
		ProductID: product.ID,
		Accounts: []AccountItem{
			{Email: "acc1@mail.com", Password: "secret1"},
			{Email: "acc2@mail.com", Password: "secret2", AdditionalInfo: "profile 2"},
		},
	})

	require.NoError(t, err)
	require.Len(t, responses, 2)
	// responses echo the submitted plaintext
	assert.Equal(t, "secret1", responses[0].Password)

	saved := f.accountRepo.Calls[0].Arguments.Get(1).([]*inventory.StockAccount)
	require.Len(t, saved, 2)
	// rows carry ciphertext only
	assert.Equal(t, "enc:secret1", saved[0].Password)
	assert.Equal(t, "enc:secret2", saved[1].Password)

	assert.Equal(t, 2, product.StockCount)
}

func TestStockService_AddAccounts_RejectsCreditProduct(t *testing.T) {
	f := newStockFixture()
	product := creditProduct(t)

	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := f.service.AddAccounts(context.Background(), AddAccountsRequest{
		ProductID: product.ID,
		Accounts:  []AccountItem{{Email: "a@mail.com", Password: "x"}},
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WRONG_STOCK_KIND", domainErr.Code)
}

func TestStockService_SellAccount(t *testing.T) {
	f := newStockFixture()
	product := accountProduct(t)
	product.AdjustStockCount(1)

	account, err := inventory.NewStockAccount(product.ID, "acc@mail.com", "enc:secret", "")
	require.NoError(t, err)
	account.ClearDomainEvents()

	f.accountRepo.On("FindFirstAvailable", mock.Anything, product.ID).Return(account, nil)
	f.accountRepo.On("Save", mock.Anything, account).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.productRepo.On("Save", mock.Anything, product).Return(nil)
	f.bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.SellAccount(context.Background(), product.ID, "budi123")
	require.NoError(t, err)
	assert.Equal(t, "SOLD", resp.Status)
	assert.Equal(t, "budi123", resp.BuyerName)
	assert.Equal(t, "secret", resp.Password)
	assert.Equal(t, 0, product.StockCount)
}

func TestStockService_SellAccount_NoStock(t *testing.T) {
	f := newStockFixture()
	productID := uuid.New()

	f.accountRepo.On("FindFirstAvailable", mock.Anything, productID).Return(nil, shared.ErrNotFound)

	_, err := f.service.SellAccount(context.Background(), productID, "budi123")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStockService_AddCredits(t *testing.T) {
	f := newStockFixture()
	product := creditProduct(t)

	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.productRepo.On("Save", mock.Anything, product).Return(nil)
	f.creditRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*inventory.StockCredit")).Return(nil)

	responses, err := f.service.AddCredits(context.Background(), AddCreditsRequest{
		ProductID: product.ID,
		Credits: []CreditItem{
			{Amount: decimal.NewFromInt(100), Code: "CODE-1"},
			{Amount: decimal.NewFromInt(100), Code: "CODE-2"},
			{Amount: decimal.NewFromInt(100), Code: "CODE-3"},
		},
	})

	require.NoError(t, err)
	assert.Len(t, responses, 3)
	assert.Equal(t, 3, product.StockCount)
}

func TestStockService_SellCredit(t *testing.T) {
	f := newStockFixture()
	product := creditProduct(t)
	product.AdjustStockCount(1)

	credit, err := inventory.NewStockCredit(product.ID, decimal.NewFromInt(100), "CODE-1")
	require.NoError(t, err)
	credit.ClearDomainEvents()

	f.creditRepo.On("FindFirstAvailable", mock.Anything, product.ID).Return(credit, nil)
	f.creditRepo.On("Save", mock.Anything, credit).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.productRepo.On("Save", mock.Anything, product).Return(nil)
	f.bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.SellCredit(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "SOLD", resp.Status)
	assert.Equal(t, 0, product.StockCount)
}

func TestStockService_ReserveAccount(t *testing.T) {
	f := newStockFixture()
	product := accountProduct(t)
	product.AdjustStockCount(1)

	account, err := inventory.NewStockAccount(product.ID, "acc@mail.com", "enc:secret", "")
	require.NoError(t, err)
	account.ClearDomainEvents()

	f.accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	f.accountRepo.On("Save", mock.Anything, account).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.productRepo.On("Save", mock.Anything, product).Return(nil)

	resp, err := f.service.ReserveAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "RESERVED", resp.Status)
	// reserved rows leave the sellable counter
	assert.Equal(t, 0, product.StockCount)
}

func TestStockService_ReserveAccount_RejectsSoldRow(t *testing.T) {
	f := newStockFixture()
	productID := uuid.New()

	sold, err := inventory.NewStockAccount(productID, "acc@mail.com", "enc:x", "")
	require.NoError(t, err)
	require.NoError(t, sold.MarkSold("budi"))
	sold.ClearDomainEvents()

	f.accountRepo.On("FindByID", mock.Anything, sold.ID).Return(sold, nil)

	_, err = f.service.ReserveAccount(context.Background(), sold.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	f.accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStockService_ReleaseAccount_RestoresCounter(t *testing.T) {
	f := newStockFixture()
	product := accountProduct(t)

	account, err := inventory.NewStockAccount(product.ID, "acc@mail.com", "enc:secret", "")
	require.NoError(t, err)
	require.NoError(t, account.Reserve())
	account.ClearDomainEvents()

	f.accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	f.accountRepo.On("Save", mock.Anything, account).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.productRepo.On("Save", mock.Anything, product).Return(nil)

	resp, err := f.service.ReleaseAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", resp.Status)
	assert.Equal(t, 1, product.StockCount)
}

func TestStockService_DeleteAccount_AdjustsCountOnlyWhenAvailable(t *testing.T) {
	f := newStockFixture()
	product := accountProduct(t)
	product.AdjustStockCount(1)

	sold, err := inventory.NewStockAccount(product.ID, "acc@mail.com", "enc:x", "")
	require.NoError(t, err)
	require.NoError(t, sold.MarkSold("budi"))
	sold.ClearDomainEvents()

	f.accountRepo.On("FindByID", mock.Anything, sold.ID).Return(sold, nil)
	f.accountRepo.On("Delete", mock.Anything, sold.ID).Return(nil)

	require.NoError(t, f.service.DeleteAccount(context.Background(), sold.ID))
	// sold rows do not contribute to the available counter
	assert.Equal(t, 1, product.StockCount)
	f.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
