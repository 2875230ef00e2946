// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file tracks processed transport event ids so that
// redelivered webhook payloads are handled at most once.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-shop-backend/internal/domain"
)

// MarkEventSeen records eventID and reports whether this was its first
// delivery. A conflicting insert (already seen) returns false with no error.
func MarkEventSeen(ctx context.Context, db *gorm.DB, eventID string) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&domain.SeenEvent{EventID: eventID, CreatedAt: time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PurgeSeenEvents deletes dedup records older than the cutoff and returns
// how many rows were removed. Run periodically to bound table growth.
func PurgeSeenEvents(ctx context.Context, db *gorm.DB, olderThan time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("created_at < ?", olderThan).
		Delete(&domain.SeenEvent{})
	return res.RowsAffected, res.Error
}
