package service

import (
	"context"
	"testing"

	"pickle-admin/internal/models"
	"pickle-admin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewProjectsCollections(t *testing.T) {
	st := store.New(store.NewMemoryKV(), "test")
	analytics := NewAnalyticsService(st, 10)
	ctx := context.Background()

	_, err := st.AddProduct(ctx, models.Product{Name: "Mango Pickle", Price: 250, StockQuantity: 40, IsActive: true})
	require.NoError(t, err)
	low, err := st.AddProduct(ctx, models.Product{Name: "Lemon Pickle", Price: 180, StockQuantity: 3, IsActive: true})
	require.NoError(t, err)

	c1, err := st.AddCustomer(ctx, models.Customer{Name: "Asha", Phone: "1"})
	require.NoError(t, err)
	c2, err := st.AddCustomer(ctx, models.Customer{Name: "Ravi", Phone: "2"})
	require.NoError(t, err)

	stats := NewStatsService(st, nil)
	for _, o := range []models.Order{
		{CustomerID: c1.ID, Total: 236},
		{CustomerID: c1.ID, Total: 100},
		{CustomerID: c2.ID, Total: 50},
	} {
		_, err := st.AddOrder(ctx, o)
		require.NoError(t, err)
	}
	require.NoError(t, stats.RecalculateCustomerStats(ctx))

	ov, err := analytics.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, ov.TotalProducts)
	assert.Equal(t, 2, ov.TotalCustomers)
	assert.Equal(t, 3, ov.TotalOrders)
	assert.Equal(t, 386.0, ov.TotalRevenue)
	assert.Equal(t, 3, ov.TodayOrders)
	assert.Equal(t, 386.0, ov.MonthlyRevenue)
	assert.Equal(t, 3, ov.MonthlyOrders)

	require.Len(t, ov.LowStock, 1)
	assert.Equal(t, low.ID, ov.LowStock[0].ProductID)
	assert.Equal(t, 3, ov.LowStock[0].Stock)

	require.NotEmpty(t, ov.TopCustomers)
	assert.Equal(t, c1.ID, ov.TopCustomers[0].CustomerID)
	assert.Equal(t, 336.0, ov.TopCustomers[0].TotalSpent)

	require.Len(t, ov.Last7Days, 7)
	today := ov.Last7Days[6]
	assert.Equal(t, 3, today.Orders)
	assert.Equal(t, 386.0, today.Revenue)
}

func TestOverviewOnEmptyStore(t *testing.T) {
	st := store.New(store.NewMemoryKV(), "test")
	analytics := NewAnalyticsService(st, 10)

	ov, err := analytics.Overview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, ov.TotalProducts)
	assert.Zero(t, ov.TotalOrders)
	assert.Zero(t, ov.TotalRevenue)
	assert.Len(t, ov.Last7Days, 7)
	assert.Empty(t, ov.LowStock)
}
