// Package services – CheckoutService
//
// This file implements the checkout protocol: turning a cart snapshot into a
// persisted order without overselling any product. Validation, the stock
// decrements, and the order insert all run inside ONE database transaction,
// so either every effect becomes visible or none does.
//
// The naive shape — check stock, then update each product outside a
// transaction — loses units under concurrency. Here the per-line decrement is
// a single guarded UPDATE (stock = stock - n WHERE stock >= n) executed
// inside the transaction; a guard that matches no row aborts and rolls back
// the whole checkout. Correctness therefore does not depend on in-process
// locking and holds across multiple server processes sharing the database.
package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/repo"
)

// CartLine is one line of a cart snapshot handed to Checkout. UnitPrice is
// the price captured when the line was added; it becomes the order item's
// price snapshot and feeds the order total.
type CartLine struct {
	ProductID uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CheckoutService converts cart snapshots into orders.
type CheckoutService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// OnPlaced, when set, is invoked once per committed order (metrics hook).
	OnPlaced func()
}

// Checkout validates every line against current stock and, when all pass,
// atomically inserts the order with its items and decrements stock.
//
// Failure modes:
//   - ErrEmptyCart when the snapshot has no positive-quantity lines;
//   - *InsufficientStockError listing EVERY failing line (a vanished product
//     is reported with available 0); nothing is modified;
//   - raw storage errors, with nothing committed.
//
// On success the returned order is in status New and the caller should clear
// the user's cart.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, lines []CartLine) (*domain.Order, error) {
	tr := otel.Tracer("services/CheckoutService")
	ctx, span := tr.Start(ctx, "Checkout",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.Int("cart.lines", len(lines)),
		),
	)
	defer span.End()

	active := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			active = append(active, l)
		}
	}
	if len(active) == 0 {
		return nil, ErrEmptyCart
	}
	// Deterministic order keeps row-touch sequence stable across concurrent
	// checkouts.
	sort.Slice(active, func(i, j int) bool { return active[i].ProductID < active[j].ProductID })

	total := decimal.Zero
	for _, l := range active {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	var order *domain.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Pass 1: validate all lines so every shortage is reported together.
		var shortages []StockShortage
		for _, l := range active {
			p, err := repo.GetProduct(ctx, tx, l.ProductID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				shortages = append(shortages, StockShortage{
					ProductID: l.ProductID, Name: l.Name, Requested: l.Quantity, Available: 0,
				})
			case err != nil:
				return err
			case p.Stock < l.Quantity:
				shortages = append(shortages, StockShortage{
					ProductID: l.ProductID, Name: p.Name, Requested: l.Quantity, Available: p.Stock,
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}

		// Pass 2: guarded decrements. The guard re-checks stock inside the
		// same statement, closing the window between pass 1 and the write.
		for _, l := range active {
			if err := repo.DecrementProductStock(ctx, tx, l.ProductID, l.Quantity); err != nil {
				if errors.Is(err, repo.ErrStockConflict) {
					avail := 0
					if p, gerr := repo.GetProduct(ctx, tx, l.ProductID); gerr == nil {
						avail = p.Stock
					}
					return &InsufficientStockError{Shortages: []StockShortage{{
						ProductID: l.ProductID, Name: l.Name, Requested: l.Quantity, Available: avail,
					}}}
				}
				return err
			}
		}

		items := make([]domain.OrderItem, 0, len(active))
		for _, l := range active {
			items = append(items, domain.OrderItem{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Price:     l.UnitPrice,
			})
		}
		o, err := repo.CreateOrder(ctx, tx, userID, items, total)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.OnPlaced != nil {
		s.OnPlaced()
	}
	return order, nil
}
