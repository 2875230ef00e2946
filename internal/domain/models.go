// Package domain defines the persistence models for the shop: products,
// users, orders, and order items. These types are mapped with GORM and form
// the core data layer of the application.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are never deleted; going out of sale
// is expressed as stock reaching zero.
//
// Fields:
//   - ID: auto-incremented primary key.
//   - Name / Description: display data shown in the catalog.
//   - Price: unit price as fixed-point decimal (stored as decimal(12,2)).
//   - Stock: units available; kept non-negative by the guarded decrement
//     in the repo layer.
type Product struct {
	ID          uint            `json:"id"          gorm:"primaryKey"`
	Name        string          `json:"name"        gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price"       gorm:"type:decimal(12,2);not null"`
	Stock       int             `json:"stock"       gorm:"not null;default:0;check:stock >= 0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// User is a shop customer or administrator, identified by the external chat
// identity. Rows are created on first contact and never deleted. IsAdmin is
// set only by bootstrap provisioning, never through the dialogue surface.
type User struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	ChatID    int64     `json:"chat_id"    gorm:"uniqueIndex;not null"`
	Username  string    `json:"username"   gorm:"type:varchar(64)"`
	FullName  string    `json:"full_name"  gorm:"type:varchar(255)"`
	IsAdmin   bool      `json:"is_admin"   gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Order is an immutable record of a successful checkout. Only Status may
// change after creation; TotalPrice is a snapshot taken from the cart at
// checkout time and is never recomputed from current catalog prices.
type Order struct {
	ID         uint            `json:"id"          gorm:"primaryKey"`
	UserID     int64           `json:"user_id"     gorm:"not null;index:idx_user_orders"`
	Status     string          `json:"status"      gorm:"type:varchar(16);not null;index"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `json:"created_at"  gorm:"index"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Items are created atomically with the order and never mutated.
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is a single line of an order. Price is the unit price at the
// moment the order was created, independent of later catalog price changes.
type OrderItem struct {
	ID        uint            `json:"id"         gorm:"primaryKey"`
	OrderID   uint            `json:"order_id"   gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity"   gorm:"not null"`
	Price     decimal.Decimal `json:"price"      gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	// FK associations; items follow their order, products are only referenced.
	Order   Order   `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Product Product `json:"-" gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// SeenEvent records a processed transport event identifier so redelivered
// webhook payloads are not handled twice.
type SeenEvent struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the database table name for SeenEvent.
func (SeenEvent) TableName() string { return "seen_events" }

// OrderSummary is a read model for order listings: one row per order with the
// owner's display name and the number of lines, newest first.
type OrderSummary struct {
	ID         uint            `json:"id"`
	UserID     int64           `json:"user_id"`
	FullName   string          `json:"full_name"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	ItemCount  int             `json:"item_count"`
}
