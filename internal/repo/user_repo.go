// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// UpsertUser registers a user on first contact. Existing rows are left
// untouched (INSERT-or-ignore semantics keyed on chat_id), so repeated
// /start commands never reset names or the admin flag.
func UpsertUser(ctx context.Context, db *gorm.DB, chatID int64, username, fullName string) error {
	u := &domain.User{
		ChatID:    chatID,
		Username:  username,
		FullName:  fullName,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoNothing: true,
		}).
		Create(u).Error
}

// GetUserByChatID fetches a user by chat identity, or ErrNotFound.
func GetUserByChatID(ctx context.Context, db *gorm.DB, chatID int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// IsAdmin reports whether chatID belongs to an administrator. Unknown users
// are simply not admins; only real DB failures surface as errors.
//
// Callers must not cache the result: authorization is a function of current
// persisted state and is re-evaluated on every sensitive step.
func IsAdmin(ctx context.Context, db *gorm.DB, chatID int64) (bool, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Select("is_admin").
		Where("chat_id = ?", chatID).
		First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin, nil
}

// EnsureAdmin provisions the designated administrator identity. The row is
// created if absent and promoted if it already exists, keeping the call
// idempotent across restarts.
func EnsureAdmin(ctx context.Context, db *gorm.DB, chatID int64) error {
	u := &domain.User{
		ChatID:    chatID,
		IsAdmin:   true,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_admin": true}),
		}).
		Create(u).Error
}
