package service

import (
	"context"
	"fmt"

	"pickle-admin/internal/broker"
	"pickle-admin/internal/models"
	"pickle-admin/internal/store"
	"pickle-admin/internal/util"

	"go.uber.org/zap"
)

// OrderService composes orders from cart lines and drives the incremental
// stats updates that follow a creation.
type OrderService struct {
	store          *store.Store
	stats          *StatsService
	eventPublisher *broker.EventPublisher
	taxRate        float64
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, stats *StatsService, eventPublisher *broker.EventPublisher, taxRate float64) *OrderService {
	return &OrderService{
		store:          store,
		stats:          stats,
		eventPublisher: eventPublisher,
		taxRate:        taxRate,
		logger:         util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID      string            `json:"customer_id" binding:"required"`
	Items           []CartLineRequest `json:"items" binding:"required,min=1"`
	PaymentMethod   string            `json:"payment_method" binding:"required"`
	PaymentStatus   string            `json:"payment_status,omitempty"`
	Discount        float64           `json:"discount,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
}

// CartLineRequest represents one cart line in an order request
type CartLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrder resolves the cart against the live product collection, computes
// the financial fields, persists the order and applies the incremental stats
// updates. This is the only path that keeps aggregates in sync as orders are
// inserted; anything else that writes orders needs a full recalculation after.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if !models.ValidPaymentMethod(req.PaymentMethod) {
		util.OrdersFailedTotal.WithLabelValues("invalid_payment_method").Inc()
		return models.Order{}, fmt.Errorf("invalid payment method %q", req.PaymentMethod)
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(req.PaymentStatus) {
		util.OrdersFailedTotal.WithLabelValues("invalid_payment_status").Inc()
		return models.Order{}, fmt.Errorf("invalid payment status %q", req.PaymentStatus)
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
		return models.Order{}, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			util.OrdersFailedTotal.WithLabelValues("unknown_product").Inc()
			return models.Order{}, fmt.Errorf("product %s not found", line.ProductID)
		}

		lineTotal := product.Price * float64(line.Quantity)
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  lineTotal,
		})
	}

	tax := subtotal * s.taxRate
	total := subtotal + tax - req.Discount

	order := models.Order{
		OrderNumber:     store.NewOrderNumber(),
		CustomerID:      req.CustomerID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   req.PaymentStatus,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        subtotal,
		Tax:             tax,
		Discount:        req.Discount,
		Total:           total,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
		OrderItems:      items,
	}

	order, err = s.store.AddOrder(ctx, order)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
		return models.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total))

	if err := s.stats.ApplyOrderToCustomer(ctx, order.CustomerID, order.Total); err != nil {
		s.logger.Error("Failed to update customer stats",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
	if err := s.stats.ApplyOrderToProductStock(ctx, order.OrderItems); err != nil {
		s.logger.Error("Failed to update product stock",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	if err := s.eventPublisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	return order, nil
}

// GetOrder retrieves an order together with its customer, when the customer
// still exists. A dangling customer reference yields a nil customer, not an
// error.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (models.Order, *models.Customer, error) {
	order, ok, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return models.Order{}, nil, err
	}
	if !ok {
		return models.Order{}, nil, fmt.Errorf("order %s: %w", orderID, store.ErrNotFound)
	}

	customer, found, err := s.store.CustomerByID(ctx, order.CustomerID)
	if err != nil {
		return models.Order{}, nil, err
	}
	if !found {
		return order, nil, nil
	}
	return order, &customer, nil
}

// ListOrders returns the full order history.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders(ctx)
}

// UpdateStatus transitions an order's status after validating the value.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return models.Order{}, fmt.Errorf("invalid order status %q", status)
	}
	return s.store.UpdateOrderStatus(ctx, orderID, status)
}

// UpdatePayment transitions an order's payment status after validating the
// value.
func (s *OrderService) UpdatePayment(ctx context.Context, orderID, paymentStatus string) (models.Order, error) {
	if !models.ValidPaymentStatus(paymentStatus) {
		return models.Order{}, fmt.Errorf("invalid payment status %q", paymentStatus)
	}
	return s.store.UpdateOrderPayment(ctx, orderID, paymentStatus)
}
