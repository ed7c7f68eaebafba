package store

import (
	"context"
	"fmt"
	"time"

	"pickle-admin/internal/models"

	"github.com/google/uuid"
)

const collOrders = "orders"

// Orders returns the full order collection in insertion order.
func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	orders := []models.Order{}
	if err := s.load(ctx, collOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveOrders replaces the persisted order collection.
func (s *Store) SaveOrders(ctx context.Context, orders []models.Order) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	return s.save(ctx, collOrders, orders)
}

// MutateOrders loads the collection, applies fn and persists the result, all
// under the collection lock. Returning a nil slice from fn skips the save.
func (s *Store) MutateOrders(ctx context.Context, fn func([]models.Order) ([]models.Order, error)) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	orders := []models.Order{}
	if err := s.load(ctx, collOrders, &orders); err != nil {
		return err
	}
	updated, err := fn(orders)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}
	return s.save(ctx, collOrders, updated)
}

// AddOrder assigns an id and timestamps, appends the order and persists the
// collection. Orders are append-mostly: there is deliberately no delete.
func (s *Store) AddOrder(ctx context.Context, o models.Order) (models.Order, error) {
	now := time.Now().UTC()
	o.ID = uuid.New().String()
	o.CreatedAt = now
	o.UpdatedAt = now

	err := s.MutateOrders(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, o), nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// UpdateOrderStatus transitions the order status. Financial fields are
// immutable after creation, so this is the narrowest possible write.
func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (models.Order, error) {
	return s.patchOrder(ctx, id, func(o *models.Order) {
		o.Status = status
	})
}

// UpdateOrderPayment transitions the payment status.
func (s *Store) UpdateOrderPayment(ctx context.Context, id, paymentStatus string) (models.Order, error) {
	return s.patchOrder(ctx, id, func(o *models.Order) {
		o.PaymentStatus = paymentStatus
	})
}

func (s *Store) patchOrder(ctx context.Context, id string, mutate func(*models.Order)) (models.Order, error) {
	var patched models.Order
	err := s.MutateOrders(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			mutate(&orders[i])
			orders[i].UpdatedAt = time.Now().UTC()
			patched = orders[i]
			return orders, nil
		}
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return models.Order{}, err
	}
	return patched, nil
}

// OrderByID resolves an order by id.
func (s *Store) OrderByID(ctx context.Context, id string) (models.Order, bool, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return models.Order{}, false, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, true, nil
		}
	}
	return models.Order{}, false, nil
}

// NewOrderNumber generates a human-readable, time-based order number.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}
