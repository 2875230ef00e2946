// Package services – OrderService
//
// This file implements order queries and the status lifecycle. Order rows
// are created only by CheckoutService; this service never inserts.
//
// Transition policy: by default any move between KNOWN statuses is accepted,
// preserving the operational flexibility of the administrator surface
// (unknown strings are always rejected). Setting EnforceTransitions switches
// on the directed graph New → Processing → Shipped → Delivered with
// Cancelled reachable from every non-terminal status; illegal jumps then
// return ErrIllegalTransition. Re-setting the current status is a no-op in
// both modes, so repeated administrator actions stay idempotent.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/repo"
)

// DefaultOrderListLimit bounds order listings when the caller passes a
// non-positive limit.
const DefaultOrderListLimit = 10

// OrderService provides order lookups, listings, and status changes.
type OrderService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// EnforceTransitions enables the status graph check in SetStatus.
	EnforceTransitions bool
}

// Get fetches any order by id with its items.
func (s *OrderService) Get(ctx context.Context, id uint) (*domain.Order, error) {
	o, err := repo.GetOrder(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetForUser fetches an order only when it belongs to userID. Orders owned
// by other users are indistinguishable from missing ones.
func (s *OrderService) GetForUser(ctx context.Context, id uint, userID int64) (*domain.Order, error) {
	o, err := repo.GetOrderForUser(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// List returns up to limit order summaries, newest first. statusFilter may
// be empty (no filter) or a known status; anything else is ErrUnknownStatus.
func (s *OrderService) List(ctx context.Context, limit int, statusFilter string) ([]domain.OrderSummary, error) {
	if limit <= 0 {
		limit = DefaultOrderListLimit
	}
	if statusFilter != "" && !domain.ValidStatus(statusFilter) {
		return nil, ErrUnknownStatus
	}
	return repo.ListOrderSummaries(ctx, s.DB, limit, statusFilter)
}

// CountByStatus returns per-status order counts for the admin summary view.
func (s *OrderService) CountByStatus(ctx context.Context) ([]repo.StatusCount, error) {
	return repo.CountOrdersByStatus(ctx, s.DB)
}

// SetStatus moves an order to the target status under the configured
// transition policy.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status string) error {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "SetStatus",
		trace.WithAttributes(
			attribute.Int("order.id", int(id)),
			attribute.String("order.status", status),
		),
	)
	defer span.End()

	if !domain.ValidStatus(status) {
		return ErrUnknownStatus
	}

	if s.EnforceTransitions {
		o, err := repo.GetOrder(ctx, s.DB, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.Status == status {
			return nil // idempotent repeat
		}
		if !domain.CanTransition(o.Status, status) {
			return ErrIllegalTransition
		}
	}

	if err := repo.UpdateOrderStatus(ctx, s.DB, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}
