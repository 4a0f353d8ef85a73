package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/digiprime/backend/internal/application/crm"
	"github.com/digiprime/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerViewRepository_AggregatesByBuyer(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	repo := NewGormCustomerViewRepository(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)

	save := func(orderSN, buyer string, status trade.OrderStatus, price int64, orderDate time.Time) {
		order, err := trade.NewOrder(orderSN, buyer, nil, decimal.NewFromInt(price), 1, status, orderDate, trade.OrderSourceSync)
		require.NoError(t, err)
		order.ClearDomainEvents()
		require.NoError(t, orderRepo.Save(ctx, order))
	}

	save("SN-1", "alpha", trade.OrderStatusCompleted, 150, now.Add(-72*time.Hour))
	save("SN-2", "alpha", trade.OrderStatusCompleted, 200, now.Add(-24*time.Hour))
	save("SN-3", "alpha", trade.OrderStatusCancelled, 999, now)
	save("SN-4", "beta", trade.OrderStatusPending, 50, now.Add(-48*time.Hour))

	summaries, total, err := repo.FindCustomers(ctx, crm.CustomerListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, summaries, 2)

	// alpha has the newest activity, so it comes first
	alpha := summaries[0]
	assert.Equal(t, "alpha", alpha.BuyerName)
	assert.Equal(t, int64(3), alpha.TotalOrders)
	assert.Equal(t, int64(2), alpha.CompletedOrders)
	assert.True(t, decimal.NewFromInt(350).Equal(alpha.TotalSpent), "cancelled orders must not count as spend, got %s", alpha.TotalSpent)

	beta := summaries[1]
	assert.Equal(t, "beta", beta.BuyerName)
	assert.Equal(t, int64(1), beta.TotalOrders)
	assert.Equal(t, int64(0), beta.CompletedOrders)
	assert.True(t, beta.TotalSpent.IsZero())
}

func TestGormCustomerViewRepository_SearchAndPagination(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	repo := NewGormCustomerViewRepository(db)
	ctx := context.Background()

	buyers := []string{"anna_store", "annabel", "birgit"}
	for i, buyer := range buyers {
		order, err := trade.NewOrder(
			"SN-"+buyer, buyer, nil, decimal.NewFromInt(10), 1,
			trade.OrderStatusPending, time.Now().Add(-time.Duration(i)*time.Hour), trade.OrderSourceManual,
		)
		require.NoError(t, err)
		order.ClearDomainEvents()
		require.NoError(t, orderRepo.Save(ctx, order))
	}

	summaries, total, err := repo.FindCustomers(ctx, crm.CustomerListFilter{Search: "anna", Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, summaries, 1)
	assert.Equal(t, "anna_store", summaries[0].BuyerName)
}
