// Package services – UserService
//
// Registration on first contact plus the administrator check. IsAdmin is
// deliberately a fresh query every time: authorization is a function of
// current persisted state and is never cached in dialogue session state, so
// a de-provisioned administrator is rejected mid-flow.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/repo"
)

// UserService manages shop users.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Register records a user on first contact. Existing rows are untouched.
func (s *UserService) Register(ctx context.Context, chatID int64, username, fullName string) error {
	return repo.UpsertUser(ctx, s.DB, chatID, username, fullName)
}

// Get fetches a user by chat identity, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, chatID int64) (*domain.User, error) {
	u, err := repo.GetUserByChatID(ctx, s.DB, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// IsAdmin reports whether chatID currently has administrator rights.
func (s *UserService) IsAdmin(ctx context.Context, chatID int64) (bool, error) {
	return repo.IsAdmin(ctx, s.DB, chatID)
}
