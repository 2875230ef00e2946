package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

func TestCreateOrder_InsertsItemsAndStatusNew(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "thing", "100.00", 10)

	items := []domain.OrderItem{
		{ProductID: p.ID, Quantity: 2, Price: decimal.RequireFromString("100.00")},
	}
	o, err := CreateOrder(context.Background(), db, 42, items, decimal.RequireFromString("200.00"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.ID == 0 || o.Status != domain.StatusNew || o.UserID != 42 {
		t.Fatalf("unexpected order: %+v", o)
	}

	got, err := GetOrder(context.Background(), db, o.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].OrderID != o.ID || got.Items[0].Quantity != 2 {
		t.Fatalf("items not linked: %+v", got.Items)
	}
	if !got.TotalPrice.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("total = %s, want 200.00", got.TotalPrice)
	}
}

func TestGetOrderForUser_ScopesToOwner(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "thing", "10.00", 10)
	items := []domain.OrderItem{{ProductID: p.ID, Quantity: 1, Price: p.Price}}
	o, err := CreateOrder(context.Background(), db, 1, items, p.Price)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := GetOrderForUser(context.Background(), db, o.ID, 1); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := GetOrderForUser(context.Background(), db, o.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign order must look missing, got %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "thing", "10.00", 10)
	items := []domain.OrderItem{{ProductID: p.ID, Quantity: 1, Price: p.Price}}
	o, _ := CreateOrder(context.Background(), db, 1, items, p.Price)

	if err := UpdateOrderStatus(context.Background(), db, o.ID, domain.StatusShipped); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	got, _ := GetOrder(context.Background(), db, o.ID)
	if got.Status != domain.StatusShipped {
		t.Fatalf("status = %s, want Shipped", got.Status)
	}

	if err := UpdateOrderStatus(context.Background(), db, 999, domain.StatusShipped); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrderSummaries_JoinsOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 7, "alice", "Alice A"); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	p := seedProduct(t, db, "thing", "10.00", 100)
	mkOrder := func(userID int64, lines int, created time.Time) *domain.Order {
		items := make([]domain.OrderItem, 0, lines)
		for i := 0; i < lines; i++ {
			items = append(items, domain.OrderItem{ProductID: p.ID, Quantity: 1, Price: p.Price})
		}
		o, err := CreateOrder(ctx, db, userID, items, p.Price.Mul(decimal.NewFromInt(int64(lines))))
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if err := db.Model(o).Update("created_at", created).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}
		return o
	}

	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	older := mkOrder(7, 2, t0)
	newer := mkOrder(9, 1, t0.Add(time.Hour)) // user 9 has no users row

	sums, err := ListOrderSummaries(ctx, db, 10, "")
	if err != nil {
		t.Fatalf("ListOrderSummaries: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sums))
	}
	// Newest first.
	if sums[0].ID != newer.ID || sums[1].ID != older.ID {
		t.Fatalf("wrong order: %+v", sums)
	}
	if sums[1].FullName != "Alice A" || sums[1].ItemCount != 2 {
		t.Fatalf("join fields wrong: %+v", sums[1])
	}
	if sums[0].FullName != "" {
		t.Fatalf("unknown user should have empty name, got %q", sums[0].FullName)
	}

	// Status filter.
	if err := UpdateOrderStatus(ctx, db, older.ID, domain.StatusShipped); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	shipped, err := ListOrderSummaries(ctx, db, 10, domain.StatusShipped)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(shipped) != 1 || shipped[0].ID != older.ID {
		t.Fatalf("filter wrong: %+v", shipped)
	}

	// Limit.
	one, err := ListOrderSummaries(ctx, db, 1, "")
	if err != nil {
		t.Fatalf("limited list: %v", err)
	}
	if len(one) != 1 || one[0].ID != newer.ID {
		t.Fatalf("limit wrong: %+v", one)
	}
}

func TestCountOrdersByStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "thing", "10.00", 100)
	items := func() []domain.OrderItem {
		return []domain.OrderItem{{ProductID: p.ID, Quantity: 1, Price: p.Price}}
	}

	o1, _ := CreateOrder(ctx, db, 1, items(), p.Price)
	_, _ = CreateOrder(ctx, db, 1, items(), p.Price)
	if err := UpdateOrderStatus(ctx, db, o1.ID, domain.StatusDelivered); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	counts, err := CountOrdersByStatus(ctx, db)
	if err != nil {
		t.Fatalf("CountOrdersByStatus: %v", err)
	}
	got := map[string]int64{}
	for _, sc := range counts {
		got[sc.Status] = sc.Count
	}
	if got[domain.StatusNew] != 1 || got[domain.StatusDelivered] != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}
