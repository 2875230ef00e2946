package dialog

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/services"
	"github.com/tbourn/go-shop-backend/internal/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), fmt.Sprintf("dialog_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&domain.Product{}, &domain.User{}, &domain.Order{},
		&domain.OrderItem{}, &domain.SeenEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newController(t *testing.T, db *gorm.DB) *Controller {
	t.Helper()
	return &Controller{
		Catalog:  &services.CatalogService{DB: db},
		Checkout: &services.CheckoutService{DB: db},
		Orders:   &services.OrderService{DB: db},
		Users:    &services.UserService{DB: db},
		Sessions: session.NewManager(time.Hour),
		Log:      zerolog.Nop(),
	}
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func makeAdmin(t *testing.T, db *gorm.DB, chatID int64) {
	t.Helper()
	u := domain.User{ChatID: chatID, IsAdmin: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func revokeAdmin(t *testing.T, db *gorm.DB, chatID int64) {
	t.Helper()
	err := db.Model(&domain.User{}).Where("chat_id = ?", chatID).
		Update("is_admin", false).Error
	if err != nil {
		t.Fatalf("revoke admin: %v", err)
	}
}

func command(userID int64, name string) Inbound {
	return Inbound{UserID: userID, Event: Event{Kind: KindCommand, Command: name}}
}

func callback(userID int64, token string) Inbound {
	return Inbound{UserID: userID, Event: Event{Kind: KindCallback, Token: token}}
}

func text(userID int64, s string) Inbound {
	return Inbound{UserID: userID, Event: Event{Kind: KindText, Text: s}}
}

func reply(t *testing.T, out []Outbound) Outbound {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("expected one reply, got %d: %+v", len(out), out)
	}
	return out[0]
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload product %d: %v", id, err)
	}
	return p.Stock
}
