package services

import (
	"context"
	"testing"
	"time"

	"github.com/tdoan/go-travel-bot/internal/intent"
)

func TestSession_LoadMissingIsFresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, time.Hour)

	s, err := svc.Load(context.Background(), "42")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.SessionID != "u_42" {
		t.Fatalf("session id = %q, want u_42", s.SessionID)
	}
	if s.Context.TurnCount != 0 || s.Context.LastIntent != "" {
		t.Fatalf("fresh session carries context: %+v", s.Context)
	}
}

func TestSession_UpdateAfterResponse(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, time.Hour)
	ctx := context.Background()

	if err := svc.UpdateAfterResponse(ctx, "42", intent.GetTicketPrice, "Tràng An", "trang-an"); err != nil {
		t.Fatalf("update: %v", err)
	}

	s, err := svc.Load(ctx, "42")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Context.TurnCount != 1 {
		t.Fatalf("turn count = %d, want 1", s.Context.TurnCount)
	}
	if s.Context.LastIntent != string(intent.GetTicketPrice) {
		t.Fatalf("last intent = %q", s.Context.LastIntent)
	}
	if s.Context.LastEntity != "Tràng An" || s.Context.LastPlaceSlug != "trang-an" {
		t.Fatalf("context = %+v", s.Context)
	}
}

func TestSession_StickyEntityAndSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, time.Hour)
	ctx := context.Background()

	if err := svc.UpdateAfterResponse(ctx, "7", intent.GetTicketPrice, "Tràng An", "trang-an"); err != nil {
		t.Fatalf("first update: %v", err)
	}
	// An unknown turn produces no entity or slug; the previous ones survive,
	// the intent does not.
	if err := svc.UpdateAfterResponse(ctx, "7", intent.Unknown, "", ""); err != nil {
		t.Fatalf("second update: %v", err)
	}

	s, err := svc.Load(ctx, "7")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Context.TurnCount != 2 {
		t.Fatalf("turn count = %d, want 2", s.Context.TurnCount)
	}
	if s.Context.LastIntent != string(intent.Unknown) {
		t.Fatalf("last intent = %q, want unknown", s.Context.LastIntent)
	}
	if s.Context.LastEntity != "Tràng An" || s.Context.LastPlaceSlug != "trang-an" {
		t.Fatalf("sticky fields lost: %+v", s.Context)
	}
}
