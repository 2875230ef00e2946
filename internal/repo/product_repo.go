// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Product
// model — the catalog store.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a product is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - DecrementProductStock returns ErrStockConflict when the guarded update
//     matches no row, i.e. the product is missing or has too little stock.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrStockConflict is returned by DecrementProductStock when the conditional
// update touches no row: either the product vanished or its stock is below
// the requested quantity. The caller decides which by re-reading the row.
var ErrStockConflict = errors.New("stock conflict")

// ListProducts returns the whole catalog ordered by id ascending.
func ListProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// ListAvailableProducts returns catalog entries with positive stock, ordered
// by id ascending. Products at zero stock stay queryable via GetProduct.
func ListAvailableProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).
		Where("stock > 0").
		Order("id asc").
		Find(&out).Error
	return out, err
}

// GetProduct fetches a single product by id, or ErrNotFound if missing.
func GetProduct(ctx context.Context, db *gorm.DB, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProductStock sets the absolute stock level of a product.
// Negative values are the caller's responsibility to reject; the column check
// constraint is the last line of defense. Returns ErrNotFound when the
// product does not exist.
func UpdateProductStock(ctx context.Context, db *gorm.DB, id uint, stock int) error {
	res := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementProductStock subtracts qty from a product's stock in a single
// guarded statement:
//
//	UPDATE products SET stock = stock - qty WHERE id = ? AND stock >= qty
//
// The stock check and the write are one atomic statement, so when run inside
// a transaction no concurrent checkout can consume the same units between
// check and act. Zero rows affected means the guard failed and the enclosing
// transaction must roll back; ErrStockConflict is returned in that case.
func DecrementProductStock(ctx context.Context, db *gorm.DB, id uint, qty int) error {
	res := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

// CountProducts returns the number of rows in the catalog. Used by bootstrap
// to decide whether the starter seed applies.
func CountProducts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error
	return total, err
}
