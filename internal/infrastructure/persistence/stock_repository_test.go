package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockAccountRepository_FIFODispatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockAccountRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	first, err := inventory.NewStockAccount(productID, "first@mail.com", "cipher1", "")
	require.NoError(t, err)
	second, err := inventory.NewStockAccount(productID, "second@mail.com", "cipher2", "")
	require.NoError(t, err)
	// Stagger creation times: in-memory SQLite can land both rows on the
	// same timestamp otherwise.
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	first.ClearDomainEvents()
	second.ClearDomainEvents()

	require.NoError(t, repo.SaveBatch(ctx, []*inventory.StockAccount{first, second}))

	available, err := repo.FindFirstAvailable(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "first@mail.com", available.Email)

	require.NoError(t, available.MarkSold("buyer_one"))
	available.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, available))

	next, err := repo.FindFirstAvailable(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "second@mail.com", next.Email)

	count, err := repo.CountAvailable(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormStockAccountRepository_FindByProductStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockAccountRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	available, err := inventory.NewStockAccount(productID, "avail@mail.com", "cipher", "")
	require.NoError(t, err)
	sold, err := inventory.NewStockAccount(productID, "sold@mail.com", "cipher", "")
	require.NoError(t, err)
	require.NoError(t, sold.MarkSold("buyer"))
	available.ClearDomainEvents()
	sold.ClearDomainEvents()

	require.NoError(t, repo.SaveBatch(ctx, []*inventory.StockAccount{available, sold}))

	status := inventory.StockAccountSold
	accounts, err := repo.FindByProduct(ctx, productID, &status)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "sold@mail.com", accounts[0].Email)
	assert.Equal(t, "buyer", accounts[0].BuyerName)

	all, err := repo.FindByProduct(ctx, productID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormStockCreditRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockCreditRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	credit, err := inventory.NewStockCredit(productID, decimal.NewFromInt(100), "CODE-AAA-111")
	require.NoError(t, err)
	credit.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, credit))

	found, err := repo.FindFirstAvailable(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "CODE-AAA-111", found.Code)
	assert.True(t, decimal.NewFromInt(100).Equal(found.Amount))

	require.NoError(t, repo.Delete(ctx, credit.ID))
	_, err = repo.FindByID(ctx, credit.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindFirstAvailable(ctx, productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
