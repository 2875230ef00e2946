package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// placeOrder runs a real checkout so orders enter the store the same way they
// do in production.
func placeOrder(t *testing.T, db *gorm.DB, userID int64) *domain.Order {
	t.Helper()
	p := seedProduct(t, db, "fixture", "10.00", 1000)
	svc := &CheckoutService{DB: db}
	o, err := svc.Checkout(context.Background(), userID, []CartLine{
		{ProductID: p.ID, Name: p.Name, Quantity: 1, UnitPrice: p.Price},
	})
	if err != nil {
		t.Fatalf("placeOrder: %v", err)
	}
	return o
}

func TestSetStatus_PermissiveMode(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{DB: db}
	o := placeOrder(t, db, 1)
	ctx := context.Background()

	// Any known-to-known move is fine without enforcement, even skipping ahead.
	if err := svc.SetStatus(ctx, o.ID, domain.StatusDelivered); err != nil {
		t.Fatalf("New -> Delivered (permissive): %v", err)
	}
	// Even "backwards".
	if err := svc.SetStatus(ctx, o.ID, domain.StatusProcessing); err != nil {
		t.Fatalf("Delivered -> Processing (permissive): %v", err)
	}

	// Unknown strings are always rejected.
	if err := svc.SetStatus(ctx, o.ID, "Teleported"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
	got, _ := svc.Get(ctx, o.ID)
	if got.Status != domain.StatusProcessing {
		t.Fatalf("rejected status leaked into store: %s", got.Status)
	}

	if err := svc.SetStatus(ctx, 9999, domain.StatusShipped); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestSetStatus_EnforcedMode(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{DB: db, EnforceTransitions: true}
	o := placeOrder(t, db, 1)
	ctx := context.Background()

	// Skipping a step is illegal.
	if err := svc.SetStatus(ctx, o.ID, domain.StatusShipped); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("New -> Shipped should be illegal, got %v", err)
	}

	// Walking the graph is fine.
	for _, step := range []string{domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered} {
		if err := svc.SetStatus(ctx, o.ID, step); err != nil {
			t.Fatalf("step to %s: %v", step, err)
		}
	}

	// Re-setting the current status is an idempotent no-op.
	if err := svc.SetStatus(ctx, o.ID, domain.StatusDelivered); err != nil {
		t.Fatalf("idempotent repeat: %v", err)
	}

	// Delivered is terminal: no cancellation afterwards.
	if err := svc.SetStatus(ctx, o.ID, domain.StatusCancelled); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("Delivered -> Cancelled should be illegal, got %v", err)
	}

	// Cancelled is reachable from any non-terminal status.
	o2 := placeOrder(t, db, 2)
	if err := svc.SetStatus(ctx, o2.ID, domain.StatusProcessing); err != nil {
		t.Fatalf("New -> Processing: %v", err)
	}
	if err := svc.SetStatus(ctx, o2.ID, domain.StatusCancelled); err != nil {
		t.Fatalf("Processing -> Cancelled: %v", err)
	}
	// And terminal too.
	if err := svc.SetStatus(ctx, o2.ID, domain.StatusShipped); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("Cancelled -> Shipped should be illegal, got %v", err)
	}
}

func TestGetForUser_Isolation(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{DB: db}
	o := placeOrder(t, db, 10)
	ctx := context.Background()

	if _, err := svc.GetForUser(ctx, o.ID, 10); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := svc.GetForUser(ctx, o.ID, 11); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign lookup must be ErrOrderNotFound, got %v", err)
	}
}

func TestList_ValidatesFilterAndDefaultsLimit(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{DB: db}
	ctx := context.Background()

	if _, err := svc.List(ctx, 10, "NoSuchStatus"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}

	for i := 0; i < DefaultOrderListLimit+3; i++ {
		placeOrder(t, db, int64(i+1))
	}
	sums, err := svc.List(ctx, 0, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sums) != DefaultOrderListLimit {
		t.Fatalf("default limit not applied: got %d", len(sums))
	}
}

func TestCountByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{DB: db}
	ctx := context.Background()

	placeOrder(t, db, 1)
	o := placeOrder(t, db, 2)
	if err := svc.SetStatus(ctx, o.ID, domain.StatusCancelled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	counts, err := svc.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	got := map[string]int64{}
	for _, sc := range counts {
		got[sc.Status] = sc.Count
	}
	if got[domain.StatusNew] != 1 || got[domain.StatusCancelled] != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}
