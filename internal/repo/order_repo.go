// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Order
// aggregate (orders plus their items).
//
// Orders are append-only: rows are inserted exactly once by checkout and only
// the status column is ever updated afterwards.
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// CreateOrder inserts an Order row together with all of its items in one
// GORM create. The caller is expected to run this inside a transaction so the
// insert and the stock decrements commit or roll back as a unit.
//
// Items must carry product id, quantity, and the unit price snapshot; their
// OrderID is filled in by the association.
func CreateOrder(ctx context.Context, db *gorm.DB, userID int64, items []domain.OrderItem, total decimal.Decimal) (*domain.Order, error) {
	o := &domain.Order{
		UserID:     userID,
		Status:     domain.StatusNew,
		TotalPrice: total,
		CreatedAt:  time.Now().UTC(),
		Items:      items,
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder fetches an order with its items by id, or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id uint) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForUser fetches an order with its items only when it belongs to
// userID. A valid order id owned by someone else yields ErrNotFound, so the
// lookup cannot leak other users' orders.
func GetOrderForUser(ctx context.Context, db *gorm.DB, id uint, userID int64) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrderSummaries returns up to limit orders, newest first, optionally
// filtered by status. Each summary joins the owner's display name and the
// number of order lines.
func ListOrderSummaries(ctx context.Context, db *gorm.DB, limit int, statusFilter string) ([]domain.OrderSummary, error) {
	q := db.WithContext(ctx).
		Model(&domain.Order{}).
		Select(`orders.id, orders.user_id, COALESCE(users.full_name, '') AS full_name,
			orders.status, orders.total_price, orders.created_at,
			COUNT(order_items.id) AS item_count`).
		Joins("LEFT JOIN users ON users.chat_id = orders.user_id").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Group("orders.id").
		Order("orders.created_at DESC, orders.id DESC").
		Limit(limit)
	if statusFilter != "" {
		q = q.Where("orders.status = ?", statusFilter)
	}

	var out []domain.OrderSummary
	err := q.Scan(&out).Error
	return out, err
}

// UpdateOrderStatus writes a new status for the order. Returns ErrNotFound
// when no such order exists. Status validity is enforced by the service
// layer, not here.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id uint, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatusCount pairs an order status with the number of orders in it.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CountOrdersByStatus returns per-status order counts for the admin summary.
func CountOrdersByStatus(ctx context.Context, db *gorm.DB) ([]StatusCount, error) {
	var out []StatusCount
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status asc").
		Scan(&out).Error
	return out, err
}
