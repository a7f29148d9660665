// Package domain defines the core persistence models for the application.
// This file holds the per-user conversation session and its JSON context.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SessionContext is the mutable conversation state carried across turns.
// TurnCount only ever increases for a living session; LastEntity and
// LastPlaceSlug are sticky: a turn that produces no new value keeps the
// previous one.
type SessionContext struct {
	TurnCount     int    `json:"turn_count"`
	LastIntent    string `json:"last_intent,omitempty"`
	LastEntity    string `json:"last_entity,omitempty"`
	LastPlaceSlug string `json:"last_place_slug,omitempty"`
}

// Value implements driver.Valuer so the context is stored as a JSON blob.
func (c SessionContext) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON blob back.
func (c *SessionContext) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = SessionContext{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("session context: unsupported scan type")
	}
}

// BotSession is a per-user conversation row, keyed by a stable session ID
// ("u_<telegram user id>" for one-to-one chats). Every save refreshes the
// expiry window; loads ignore expired rows so an expired session restarts
// from a zero context.
type BotSession struct {
	SessionID string         `json:"session_id" gorm:"type:varchar(64);primaryKey"`
	Context   SessionContext `json:"context"    gorm:"type:text;not null"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"index"`
}

// TableName returns the database table name for BotSession.
func (BotSession) TableName() string { return "bot_sessions" }
