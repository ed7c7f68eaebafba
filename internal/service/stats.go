package service

import (
	"context"
	"fmt"
	"time"

	"pickle-admin/internal/broker"
	"pickle-admin/internal/models"
	"pickle-admin/internal/store"
	"pickle-admin/internal/util"

	"go.uber.org/zap"
)

// StatsService keeps the denormalized aggregates - customer order counts and
// spend, product stock levels - consistent with the order history. The
// incremental methods run at order creation; the Recalculate methods rebuild
// the aggregates from scratch and are the authoritative reconciliation path.
type StatsService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(store *store.Store, eventPublisher *broker.EventPublisher) *StatsService {
	return &StatsService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ApplyOrderToCustomer credits one order and its total to the customer's
// aggregates. An unknown customer id is a silent no-op: orders may reference
// customers that were deleted afterwards.
func (s *StatsService) ApplyOrderToCustomer(ctx context.Context, customerID string, orderTotal float64) error {
	ctx, span := util.StartSpan(ctx, "StatsService.ApplyOrderToCustomer")
	defer span.End()

	return s.store.MutateCustomers(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		for i := range customers {
			if customers[i].ID != customerID {
				continue
			}
			customers[i].TotalOrders++
			customers[i].TotalSpent += orderTotal
			customers[i].UpdatedAt = time.Now().UTC()

			s.logger.Info("Customer stats updated",
				zap.String("customer_id", customerID),
				zap.Int("total_orders", customers[i].TotalOrders),
				zap.Float64("total_spent", customers[i].TotalSpent))
			return customers, nil
		}

		s.logger.Warn("Order references unknown customer, stats not applied",
			zap.String("customer_id", customerID))
		return nil, nil
	})
}

// ApplyOrderToProductStock decrements stock for each line item, clamping at
// zero, and persists the product collection once. Unknown product ids are
// skipped. The clamp means cumulative orders beyond available stock are
// silently truncated; availability checks belong to the caller.
func (s *StatsService) ApplyOrderToProductStock(ctx context.Context, items []models.OrderItem) error {
	ctx, span := util.StartSpan(ctx, "StatsService.ApplyOrderToProductStock")
	defer span.End()

	var depleted []models.Product
	err := s.store.MutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		for _, item := range items {
			for i := range products {
				if products[i].ID != item.ProductID {
					continue
				}
				remaining := products[i].StockQuantity - item.Quantity
				if remaining < 0 {
					remaining = 0
					util.StockClampsTotal.Inc()
					s.logger.Warn("Stock decrement clamped at zero",
						zap.String("product_id", item.ProductID),
						zap.Int("requested", item.Quantity),
						zap.Int("available", products[i].StockQuantity))
				}
				if remaining == 0 && products[i].StockQuantity > 0 {
					depleted = append(depleted, products[i])
				}
				products[i].StockQuantity = remaining
				products[i].UpdatedAt = time.Now().UTC()
				break
			}
		}
		return products, nil
	})
	if err != nil {
		return err
	}

	for _, p := range depleted {
		if err := s.eventPublisher.PublishStockDepleted(ctx, p.ID, p.Name); err != nil {
			s.logger.Error("Failed to publish StockDepleted event",
				zap.String("product_id", p.ID),
				zap.Error(err))
		}
	}
	return nil
}

// RecalculateCustomerStats rebuilds every customer's order count and spend
// from the full order history. Running it twice in a row yields identical
// results because it derives purely from orders.
func (s *StatsService) RecalculateCustomerStats(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "StatsService.RecalculateCustomerStats")
	defer span.End()

	orders, err := s.store.Orders(ctx)
	if err != nil {
		return err
	}

	err = s.store.MutateCustomers(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		byID := make(map[string]int, len(customers))
		for i := range customers {
			customers[i].TotalOrders = 0
			customers[i].TotalSpent = 0
			byID[customers[i].ID] = i
		}

		for _, order := range orders {
			i, ok := byID[order.CustomerID]
			if !ok {
				continue
			}
			customers[i].TotalOrders++
			customers[i].TotalSpent += order.Total
		}

		now := time.Now().UTC()
		for i := range customers {
			customers[i].UpdatedAt = now
		}

		s.logger.Info("Customer stats recalculated",
			zap.Int("customers", len(customers)),
			zap.Int("orders", len(orders)))
		return customers, nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist recalculated stats: %w", err)
	}

	util.StatsRecalculationsTotal.WithLabelValues("customers").Inc()
	return nil
}

// StockReport describes one product's stock position against the cumulative
// quantity ever ordered for it.
type StockReport struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	TotalOrdered int    `json:"total_ordered"`
}

// RecalculateProductStock computes the cumulative ordered quantity per product
// from the full order history and reports it alongside current stock. It is
// diagnostic only: without a received-stock field there is no baseline to
// reconcile against, so no stock value is written back.
func (s *StatsService) RecalculateProductStock(ctx context.Context) ([]StockReport, error) {
	ctx, span := util.StartSpan(ctx, "StatsService.RecalculateProductStock")
	defer span.End()

	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, err
	}

	ordered := make(map[string]int)
	for _, order := range orders {
		for _, item := range order.OrderItems {
			ordered[item.ProductID] += item.Quantity
		}
	}

	reports := make([]StockReport, 0, len(products))
	for _, p := range products {
		reports = append(reports, StockReport{
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.StockQuantity,
			TotalOrdered: ordered[p.ID],
		})
		s.logger.Info("Stock position",
			zap.String("product", p.Name),
			zap.Int("current_stock", p.StockQuantity),
			zap.Int("total_ordered", ordered[p.ID]))
	}

	util.StatsRecalculationsTotal.WithLabelValues("stock").Inc()
	return reports, nil
}
