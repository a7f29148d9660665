// Package services – SessionService
//
// This file implements SessionService, the only place where per-user
// conversation state mutates. Loads are read-through (a missing or expired
// row yields a zero context without writing); saves upsert and refresh the
// expiry window.
//
// Known limitation, kept on purpose: updates for one user are not serialized,
// so concurrent turns race on the load/mutate/save sequence. The session
// carries advisory context only, so the stale-write window is tolerated.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/domain"
	"github.com/tdoan/go-travel-bot/internal/intent"
	"github.com/tdoan/go-travel-bot/internal/repo"
)

// SessionService manages per-user conversation context.
type SessionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// TTL is the retention window refreshed on every save.
	TTL time.Duration
}

// NewSessionService constructs a SessionService with the given retention.
func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	return &SessionService{DB: db, TTL: ttl}
}

// sessionID derives the stable session key for a user. One-to-one chats use
// the user ID directly.
func sessionID(userID string) string { return "u_" + userID }

// Load returns the user's live session, or a fresh default context when none
// exists. Load never writes.
func (s *SessionService) Load(ctx context.Context, userID string) (*domain.BotSession, error) {
	return repo.GetSession(ctx, s.DB, sessionID(userID), time.Now().UTC())
}

// UpdateAfterResponse records the outcome of a successfully replied turn:
// the turn counter increments, the last intent is overwritten
// unconditionally, and the last entity and place slug are overwritten only
// when the turn produced a new value; a turn without one must not erase
// the previous context.
func (s *SessionService) UpdateAfterResponse(ctx context.Context, userID string, it intent.Intent, entity, slug string) error {
	sess, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	sess.Context.TurnCount++
	sess.Context.LastIntent = string(it)
	if entity != "" {
		sess.Context.LastEntity = entity
	}
	if slug != "" {
		sess.Context.LastPlaceSlug = slug
	}

	return repo.SaveSession(ctx, s.DB, sess, s.TTL)
}
