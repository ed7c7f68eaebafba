package service

import (
	"context"
	"strings"
	"testing"

	"pickle-admin/internal/models"
	"pickle-admin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService(t *testing.T) (*OrderService, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV(), "test")
	stats := NewStatsService(st, nil)
	return NewOrderService(st, stats, nil, 0.18), st
}

func TestCreateOrderComputesTotalsAndUpdatesStats(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	customer, err := st.AddCustomer(ctx, models.Customer{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)
	product, err := st.AddProduct(ctx, models.Product{Name: "Mango Pickle", Price: 100, StockQuantity: 40})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    customer.ID,
		PaymentMethod: models.PaymentMethodCash,
		Items: []CartLineRequest{
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 36.0, order.Tax)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 236.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))

	require.Len(t, order.OrderItems, 1)
	item := order.OrderItems[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Mango Pickle", item.ProductName)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 100.0, item.UnitPrice)
	assert.Equal(t, 200.0, item.TotalPrice)

	gotCustomer, _, err := st.CustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotCustomer.TotalOrders)
	assert.Equal(t, 236.0, gotCustomer.TotalSpent)

	gotProduct, _, err := st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 38, gotProduct.StockQuantity)
}

func TestCreateOrderSnapshotsProductFields(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	product, err := st.AddProduct(ctx, models.Product{Name: "Lemon Pickle", Price: 180, StockQuantity: 10})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    "c-1",
		PaymentMethod: models.PaymentMethodUPI,
		Items:         []CartLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// later edits to the product must not rewrite history
	newName := "Lemon Pickle Premium"
	newPrice := 260.0
	_, err = st.UpdateProduct(ctx, product.ID, models.ProductUpdate{Name: &newName, Price: &newPrice})
	require.NoError(t, err)

	got, ok, err := st.OrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Lemon Pickle", got.OrderItems[0].ProductName)
	assert.Equal(t, 180.0, got.OrderItems[0].UnitPrice)
}

func TestCreateOrderAppliesDiscount(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	product, err := st.AddProduct(ctx, models.Product{Name: "Mixed Pickle", Price: 100, StockQuantity: 5})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    "c-1",
		PaymentMethod: models.PaymentMethodCard,
		Discount:      50,
		Items:         []CartLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 18.0, order.Tax)
	assert.Equal(t, 68.0, order.Total)
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	before, err := st.Orders(ctx)
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    "c-1",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CartLineRequest{{ProductID: "ghost", Quantity: 1}},
	})
	assert.Error(t, err)

	after, err := st.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateOrderRejectsBadEnums(t *testing.T) {
	svc, _ := newTestOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    "c-1",
		PaymentMethod: "cheque",
		Items:         []CartLineRequest{{ProductID: "p", Quantity: 1}},
	})
	assert.Error(t, err)

	_, err = svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    "c-1",
		PaymentMethod: models.PaymentMethodCash,
		PaymentStatus: "maybe",
		Items:         []CartLineRequest{{ProductID: "p", Quantity: 1}},
	})
	assert.Error(t, err)
}

func TestCreateOrderForUnknownCustomerStillPersists(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	product, err := st.AddProduct(ctx, models.Product{Name: "Amla Pickle", Price: 150, StockQuantity: 3})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    "no-such-customer",
		PaymentMethod: models.PaymentMethodBank,
		Items:         []CartLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// order exists, stock moved, and no customer was credited
	got, ok, err := st.OrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "no-such-customer", got.CustomerID)

	gotProduct, _, _ := st.ProductByID(ctx, product.ID)
	assert.Equal(t, 2, gotProduct.StockQuantity)
}

func TestGetOrderResolvesDanglingCustomerAsAbsent(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	customer, err := st.AddCustomer(ctx, models.Customer{Name: "Ravi", Phone: "9000000000"})
	require.NoError(t, err)
	product, err := st.AddProduct(ctx, models.Product{Name: "Garlic Pickle", Price: 220, StockQuantity: 9})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		CustomerID:    customer.ID,
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CartLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	removed, err := st.DeleteCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.True(t, removed)

	gotOrder, gotCustomer, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, gotOrder.CustomerID)
	assert.Nil(t, gotCustomer)
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	svc, st := newTestOrderService(t)
	ctx := context.Background()

	order, err := st.AddOrder(ctx, models.Order{Status: models.OrderStatusPending})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "teleported")
	assert.Error(t, err)

	_, err = svc.UpdateStatus(ctx, "missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
