// Package services defines the business logic for the catalog, cart
// checkout, orders, and users. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// dialogue controller translates them into user-facing messages. None of
// them is fatal.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProductNotFound indicates that the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderNotFound indicates that the requested order does not exist or is
	// not accessible to the current user.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUserNotFound indicates that the referenced user has never contacted
	// the shop.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyCart is returned when checkout is attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientStock is the sentinel matched by errors.Is against
	// InsufficientStockError values.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNegativeStock is returned when a stock update would set a negative
	// stock level.
	ErrNegativeStock = errors.New("stock must not be negative")

	// ErrUnknownStatus is returned when a status string is outside the known
	// order status set.
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrIllegalTransition is returned only when transition enforcement is
	// enabled and the requested move is not an edge of the status graph.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrUnauthorized is returned when a non-administrator invokes an
	// administrator-only operation.
	ErrUnauthorized = errors.New("administrator privileges required")
)

// StockShortage describes one cart line that cannot be satisfied. A product
// that vanished from the catalog is reported with Available == 0.
type StockShortage struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

// InsufficientStockError aggregates every shortage found during checkout so
// the user learns about all failing lines at once instead of one per retry.
// It matches errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	Shortages []StockShortage
}

// Error implements the error interface.
func (e *InsufficientStockError) Error() string {
	if len(e.Shortages) == 0 {
		return ErrInsufficientStock.Error()
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("product %d (%s): requested %d, available %d",
			s.ProductID, s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Is lets errors.Is treat any InsufficientStockError as ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
