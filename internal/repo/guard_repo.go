// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the atomic primitives behind the
// idempotency guard and the fixed-window rate limiter. Both are single
// conditional statements rather than read-then-write pairs, so concurrent
// webhook deliveries cannot race into double-processing or undercounting.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdoan/go-travel-bot/internal/domain"
)

// ClaimUpdate optimistically inserts an idempotency claim for updateID.
// The insert is a conflict-tolerant no-op: it reports claimed=false when a
// row for the same update already exists, without raising an error. Exactly
// one concurrent caller observes claimed=true.
func ClaimUpdate(ctx context.Context, db *gorm.DB, updateID int64, userID string) (bool, error) {
	rec := domain.UpdateLog{
		UpdateID:    updateID,
		UserID:      userID,
		ProcessedAt: time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseUpdate deletes the claim for updateID so a retried delivery of the
// same update can be reprocessed. Deleting a missing claim is not an error.
func ReleaseUpdate(ctx context.Context, db *gorm.DB, updateID int64) error {
	return db.WithContext(ctx).
		Delete(&domain.UpdateLog{}, "update_id = ?", updateID).Error
}

// IncrementRateWindow bumps the counter for (userID, windowStart) and returns
// the post-increment count in the same statement. The upsert initializes the
// row to 1 on first sight of the window.
func IncrementRateWindow(ctx context.Context, db *gorm.DB, userID string, windowStart time.Time) (int, error) {
	var count int
	err := db.WithContext(ctx).Raw(`
		INSERT INTO rate_limits (user_id, window_start, count) VALUES (?, ?, 1)
		ON CONFLICT (user_id, window_start) DO UPDATE SET count = count + 1
		RETURNING count`,
		userID, windowStart).
		Scan(&count).Error
	return count, err
}

// PurgeExpiredRateWindows removes counters whose window started before the
// cutoff, bounding table growth. Safe to call opportunistically.
func PurgeExpiredRateWindows(ctx context.Context, db *gorm.DB, before time.Time) error {
	return db.WithContext(ctx).
		Delete(&domain.RateLimit{}, "window_start < ?", before).Error
}
