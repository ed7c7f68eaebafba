package store

import (
	"context"
	"fmt"
	"time"

	"pickle-admin/internal/models"

	"github.com/google/uuid"
)

const collCustomers = "customers"

// Customers returns the full customer collection in insertion order.
func (s *Store) Customers(ctx context.Context) ([]models.Customer, error) {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()
	customers := []models.Customer{}
	if err := s.load(ctx, collCustomers, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// SaveCustomers replaces the persisted customer collection.
func (s *Store) SaveCustomers(ctx context.Context, customers []models.Customer) error {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()
	return s.save(ctx, collCustomers, customers)
}

// MutateCustomers loads the collection, applies fn and persists the result,
// all under the collection lock. Returning a nil slice from fn skips the
// save.
func (s *Store) MutateCustomers(ctx context.Context, fn func([]models.Customer) ([]models.Customer, error)) error {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	customers := []models.Customer{}
	if err := s.load(ctx, collCustomers, &customers); err != nil {
		return err
	}
	updated, err := fn(customers)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}
	return s.save(ctx, collCustomers, updated)
}

// AddCustomer assigns an id and timestamps, zeroes the derived stats fields,
// appends the customer and persists the collection.
func (s *Store) AddCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	now := time.Now().UTC()
	c.ID = uuid.New().String()
	c.TotalOrders = 0
	c.TotalSpent = 0
	c.CreatedAt = now
	c.UpdatedAt = now

	err := s.MutateCustomers(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		return append(customers, c), nil
	})
	if err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// UpdateCustomer merges the partial update over the customer with the given
// id. Returns ErrNotFound if the id is unknown.
func (s *Store) UpdateCustomer(ctx context.Context, id string, updates models.CustomerUpdate) (models.Customer, error) {
	var updated models.Customer
	err := s.MutateCustomers(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		for i := range customers {
			if customers[i].ID != id {
				continue
			}
			updates.Apply(&customers[i])
			customers[i].UpdatedAt = time.Now().UTC()
			updated = customers[i]
			return customers, nil
		}
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return models.Customer{}, err
	}
	return updated, nil
}

// DeleteCustomer removes the customer with the given id. Orders referencing
// the customer are left in place; their customer_id becomes a dangling
// reference that readers resolve as "unknown customer".
func (s *Store) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.MutateCustomers(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		filtered := customers[:0:0]
		for _, c := range customers {
			if c.ID != id {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == len(customers) {
			return nil, nil
		}
		removed = true
		return filtered, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// CustomerByID resolves a customer by id. The second return value is false
// when the reference dangles.
func (s *Store) CustomerByID(ctx context.Context, id string) (models.Customer, bool, error) {
	customers, err := s.Customers(ctx)
	if err != nil {
		return models.Customer{}, false, err
	}
	for _, c := range customers {
		if c.ID == id {
			return c, true, nil
		}
	}
	return models.Customer{}, false, nil
}
