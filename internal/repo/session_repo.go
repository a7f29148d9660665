// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for BotSession
// rows: read-through loads and expiry-refreshing upserts.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdoan/go-travel-bot/internal/domain"
)

// GetSession loads a non-expired session by ID. When no live row exists it
// returns a fresh default session (turn count zero) without writing anything;
// the row is only persisted by the first SaveSession.
func GetSession(ctx context.Context, db *gorm.DB, sessionID string, now time.Time) (*domain.BotSession, error) {
	var s domain.BotSession
	err := db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.BotSession{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSession upserts the session and refreshes its expiry window. Every
// write pushes ExpiresAt ttl into the future, so an active user's session
// never lapses mid-conversation.
func SaveSession(ctx context.Context, db *gorm.DB, s *domain.BotSession, ttl time.Duration) error {
	now := time.Now().UTC()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"context", "updated_at", "expires_at"}),
		}).
		Create(s).Error
}
