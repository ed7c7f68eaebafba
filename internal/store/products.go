package store

import (
	"context"
	"fmt"
	"time"

	"pickle-admin/internal/models"

	"github.com/google/uuid"
)

const collProducts = "products"

// Products returns the full product collection in insertion order. Missing or
// corrupt data degrades to an empty collection.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	products := []models.Product{}
	if err := s.load(ctx, collProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProducts replaces the persisted product collection.
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	return s.save(ctx, collProducts, products)
}

// MutateProducts loads the collection, applies fn and persists the result,
// all under the collection lock. Returning a nil slice from fn skips the
// save, leaving the persisted value untouched.
func (s *Store) MutateProducts(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	products := []models.Product{}
	if err := s.load(ctx, collProducts, &products); err != nil {
		return err
	}
	updated, err := fn(products)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}
	return s.save(ctx, collProducts, updated)
}

// AddProduct assigns an id and timestamps, appends the product and persists
// the collection. The stored record is returned.
func (s *Store) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}

	err := s.MutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		return append(products, p), nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateProduct merges the partial update over the product with the given id
// and persists the collection. Returns ErrNotFound if the id is unknown.
func (s *Store) UpdateProduct(ctx context.Context, id string, updates models.ProductUpdate) (models.Product, error) {
	var updated models.Product
	err := s.MutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID != id {
				continue
			}
			updates.Apply(&products[i])
			products[i].UpdatedAt = time.Now().UTC()
			updated = products[i]
			return products, nil
		}
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes the product with the given id. It reports whether a
// record was actually removed.
func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.MutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		filtered := products[:0:0]
		for _, p := range products {
			if p.ID != id {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == len(products) {
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

// ProductByID resolves a product by id. The second return value is false when
// the reference dangles.
func (s *Store) ProductByID(ctx context.Context, id string) (models.Product, bool, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return models.Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}
