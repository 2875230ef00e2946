package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

func TestCheckout_Success(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "T-shirt", "550.00", 50)
	svc := &CheckoutService{DB: db}

	order, err := svc.Checkout(context.Background(), 42, []CartLine{
		{ProductID: p.ID, Name: p.Name, Quantity: 3, UnitPrice: p.Price},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.Status != domain.StatusNew || order.UserID != 42 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if !order.TotalPrice.Equal(decimal.RequireFromString("1650.00")) {
		t.Fatalf("total = %s, want 1650.00", order.TotalPrice)
	}
	if got := productStock(t, db, p.ID); got != 47 {
		t.Fatalf("stock = %d, want 47", got)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 || !order.Items[0].Price.Equal(p.Price) {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := &CheckoutService{DB: db}

	if _, err := svc.Checkout(context.Background(), 1, nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("nil lines: expected ErrEmptyCart, got %v", err)
	}
	// Lines with zero quantity count as empty.
	if _, err := svc.Checkout(context.Background(), 1, []CartLine{{ProductID: 1, Quantity: 0}}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("zero quantities: expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_ReportsAllShortagesAndCommitsNothing(t *testing.T) {
	db := newTestDB(t)
	pOK := seedProduct(t, db, "plenty", "10.00", 100)
	pLow := seedProduct(t, db, "scarce", "20.00", 2)
	svc := &CheckoutService{DB: db}

	_, err := svc.Checkout(context.Background(), 7, []CartLine{
		{ProductID: pOK.ID, Name: "plenty", Quantity: 5, UnitPrice: pOK.Price},
		{ProductID: pLow.ID, Name: "scarce", Quantity: 3, UnitPrice: pLow.Price},
		{ProductID: 9999, Name: "ghost", Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
	})

	var short *InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("errors.Is sentinel match failed")
	}
	if len(short.Shortages) != 2 {
		t.Fatalf("got %d shortages, want 2: %+v", len(short.Shortages), short.Shortages)
	}
	byID := map[uint]StockShortage{}
	for _, s := range short.Shortages {
		byID[s.ProductID] = s
	}
	if s := byID[pLow.ID]; s.Requested != 3 || s.Available != 2 {
		t.Fatalf("scarce shortage wrong: %+v", s)
	}
	if s := byID[9999]; s.Available != 0 {
		t.Fatalf("vanished product must report available 0: %+v", s)
	}

	// Nothing committed: stock untouched, no orders.
	if got := productStock(t, db, pOK.ID); got != 100 {
		t.Fatalf("satisfiable line was decremented: stock %d", got)
	}
	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	if orders != 0 {
		t.Fatalf("order rows created on failed checkout: %d", orders)
	}
}

func TestCheckout_UsesPriceSnapshotNotCurrentPrice(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "volatile", "80.00", 10)
	svc := &CheckoutService{DB: db}

	// The catalog price changed after the line was added to the cart.
	if err := db.Model(&p).Update("price", decimal.RequireFromString("99.00")).Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}

	order, err := svc.Checkout(context.Background(), 1, []CartLine{
		{ProductID: p.ID, Name: p.Name, Quantity: 2, UnitPrice: decimal.RequireFromString("80.00")},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !order.TotalPrice.Equal(decimal.RequireFromString("160.00")) {
		t.Fatalf("total = %s, want snapshot-based 160.00", order.TotalPrice)
	}
	if !order.Items[0].Price.Equal(decimal.RequireFromString("80.00")) {
		t.Fatalf("item price = %s, want snapshot 80.00", order.Items[0].Price)
	}
}

func TestCheckout_ConcurrentNeverOversells(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "limited", "550.00", 50)
	svc := &CheckoutService{DB: db}

	// Two buyers race for 30 of 50 units; only one can win.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Checkout(context.Background(), int64(i+1), []CartLine{
				{ProductID: p.ID, Name: "limited", Quantity: 30, UnitPrice: p.Price},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("loser got unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("got %d successful checkouts, want exactly 1", successes)
	}
	if got := productStock(t, db, p.ID); got != 20 {
		t.Fatalf("stock = %d, want 20", got)
	}
	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	if orders != 1 {
		t.Fatalf("order rows = %d, want 1", orders)
	}
}

func TestCheckout_OnPlacedHook(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "thing", "10.00", 5)

	placed := 0
	svc := &CheckoutService{DB: db, OnPlaced: func() { placed++ }}

	if _, err := svc.Checkout(context.Background(), 1, []CartLine{
		{ProductID: p.ID, Name: "thing", Quantity: 1, UnitPrice: p.Price},
	}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if placed != 1 {
		t.Fatalf("OnPlaced fired %d times, want 1", placed)
	}

	// Failed checkout must not fire the hook.
	if _, err := svc.Checkout(context.Background(), 1, []CartLine{
		{ProductID: p.ID, Name: "thing", Quantity: 99, UnitPrice: p.Price},
	}); err == nil {
		t.Fatal("expected shortage")
	}
	if placed != 1 {
		t.Fatalf("OnPlaced fired on failure: %d", placed)
	}
}
