// Package services – CatalogService
//
// This file implements the CatalogService, the read-mostly surface over the
// product table plus the administrator's absolute stock update. The checkout
// decrement lives in CheckoutService because it only makes sense inside the
// checkout transaction.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/repo"
)

// CatalogService provides catalog lookups and stock administration.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// ListAvailable returns every product with positive stock, ordered by id.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return repo.ListAvailableProducts(ctx, s.DB)
}

// ListAll returns the whole catalog, including sold-out products.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return repo.ListProducts(ctx, s.DB)
}

// Get fetches a product by id. Sold-out products remain reachable here even
// though ListAvailable excludes them.
func (s *CatalogService) Get(ctx context.Context, id uint) (*domain.Product, error) {
	p, err := repo.GetProduct(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// SetStock sets the absolute stock level for a product. Negative values are
// rejected with ErrNegativeStock before touching the store.
func (s *CatalogService) SetStock(ctx context.Context, id uint, stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	if err := repo.UpdateProductStock(ctx, s.DB, id, stock); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
