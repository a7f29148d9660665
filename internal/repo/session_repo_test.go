package repo

import (
	"context"
	"testing"
	"time"
)

func TestGetSession_MissingYieldsFreshWithoutWrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s, err := GetSession(ctx, db, "u_1", time.Now().UTC())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.SessionID != "u_1" || s.Context.TurnCount != 0 {
		t.Fatalf("unexpected fresh session: %+v", s)
	}

	var count int64
	if err := db.Table("bot_sessions").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("read-through load wrote %d rows", count)
	}
}

func TestSaveSession_UpsertsAndRefreshesExpiry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	s, err := GetSession(ctx, db, "u_2", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	s.Context.TurnCount = 1
	s.Context.LastIntent = "get_ticket_price"
	if err := SaveSession(ctx, db, s, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := GetSession(ctx, db, "u_2", now)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Context.TurnCount != 1 || got.Context.LastIntent != "get_ticket_price" {
		t.Fatalf("context not persisted: %+v", got.Context)
	}
	if !got.ExpiresAt.After(now) {
		t.Fatalf("expiry not in the future: %v", got.ExpiresAt)
	}

	// Second save is an update, not a second row.
	got.Context.TurnCount = 2
	if err := SaveSession(ctx, db, got, time.Hour); err != nil {
		t.Fatalf("second save: %v", err)
	}
	var count int64
	if err := db.Table("bot_sessions").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

func TestGetSession_ExpiredRowIgnored(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s, _ := GetSession(ctx, db, "u_3", time.Now().UTC())
	s.Context.TurnCount = 5
	// Negative TTL writes an already-expired row.
	if err := SaveSession(ctx, db, s, -time.Second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := GetSession(ctx, db, "u_3", time.Now().UTC())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Context.TurnCount != 0 {
		t.Fatalf("expired session leaked context: %+v", got.Context)
	}
}
