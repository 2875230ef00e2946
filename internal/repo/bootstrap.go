// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file performs one-time startup work: schema creation,
// the starter catalog seed, and administrator provisioning.
package repo

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// starterCatalog is inserted only when the products table is empty, so a
// fresh deployment has something to sell without touching an existing one.
var starterCatalog = []domain.Product{
	{Name: "T-shirt", Description: "Cotton t-shirt, sizes S-XL", Price: decimal.RequireFromString("550.00"), Stock: 50},
	{Name: "Jeans", Description: "Classic jeans, sizes 28-36", Price: decimal.RequireFromString("1099.00"), Stock: 30},
	{Name: "Sneakers", Description: "Sport sneakers, sizes 36-45", Price: decimal.RequireFromString("1850.00"), Stock: 25},
	{Name: "Jacket", Description: "Mid-season jacket, sizes S-XXL", Price: decimal.RequireFromString("2200.00"), Stock: 15},
	{Name: "Beanie", Description: "Warm winter beanie", Price: decimal.RequireFromString("450.00"), Stock: 40},
}

// Bootstrap ensures the schema exists, seeds the starter catalog when the
// catalog is empty, and provisions the designated administrator identity.
// adminChatID == 0 skips provisioning (useful in tests).
func Bootstrap(ctx context.Context, db *gorm.DB, adminChatID int64) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}

	n, err := CountProducts(ctx, db)
	if err != nil {
		return err
	}
	if n == 0 {
		seed := make([]domain.Product, len(starterCatalog))
		copy(seed, starterCatalog)
		if err := db.WithContext(ctx).Create(&seed).Error; err != nil {
			return err
		}
		log.Info().Int("products", len(seed)).Msg("seeded starter catalog")
	}

	if adminChatID != 0 {
		if err := EnsureAdmin(ctx, db, adminChatID); err != nil {
			return err
		}
		log.Info().Int64("chat_id", adminChatID).Msg("administrator provisioned")
	}
	return nil
}
