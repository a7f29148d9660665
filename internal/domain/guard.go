// Package domain defines the core persistence models for the application.
// This file holds the durable guard rows: the idempotency claim log for
// Telegram update IDs and the fixed-window rate-limit counters.
package domain

import "time"

// UpdateLog is an idempotency claim for one Telegram update_id. Its presence
// is the sole gate for "already processed": the claim is inserted before
// dispatch and deleted again if dispatch fails, so a retried delivery can be
// reprocessed from scratch.
type UpdateLog struct {
	UpdateID    int64     `json:"update_id"    gorm:"primaryKey;autoIncrement:false"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);not null"`
	ProcessedAt time.Time `json:"processed_at" gorm:"autoCreateTime"`
}

// TableName returns the database table name for UpdateLog.
func (UpdateLog) TableName() string { return "update_logs" }

// RateLimit is a per-(user, window) request counter. WindowStart is aligned
// to fixed-size buckets; the counter is incremented atomically together with
// the read that enforces the threshold.
type RateLimit struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);not null;uniqueIndex:ux_rate_user_window,priority:1"`
	WindowStart time.Time `json:"window_start" gorm:"not null;uniqueIndex:ux_rate_user_window,priority:2"`
	Count       int       `json:"count"        gorm:"not null;default:0"`
}

// TableName returns the database table name for RateLimit.
func (RateLimit) TableName() string { return "rate_limits" }
