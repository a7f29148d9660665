package repo

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/domain"
)

// seedPlace inserts a place with two ticket rows and an opening-hour row for
// the weekday of the given reference time.
func seedPlace(t *testing.T, db *gorm.DB, slug string, active bool, ref time.Time) *domain.Place {
	t.Helper()
	p := &domain.Place{Name: "Tràng An", Slug: slug, Province: "Ninh Bình", IsActive: active}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed place: %v", err)
	}
	tickets := []domain.Ticket{
		{PlaceID: p.ID, TicketType: "Vé tham quan", AdultPrice: 250000, ChildPrice: 120000},
		{PlaceID: p.ID, TicketType: "Vé đò", AdultPrice: 0, ChildPrice: 0, Notes: "Miễn phí"},
	}
	if err := db.Create(&tickets).Error; err != nil {
		t.Fatalf("seed tickets: %v", err)
	}
	oh := &domain.OpeningHour{
		PlaceID:   p.ID,
		DayOfWeek: int(ref.Weekday()),
		OpenTime:  "07:00:00",
		CloseTime: "17:00:00",
	}
	if err := db.Create(oh).Error; err != nil {
		t.Fatalf("seed hours: %v", err)
	}
	return p
}

func TestFindTicketsBySlug_ReturnsAllRowsWithHours(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) // a Monday
	seedPlace(t, db, "trang-an", true, now)

	rows, err := FindTicketsBySlug(context.Background(), db, "trang-an", now)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	// Storage order, first row carries the joined metadata.
	first := rows[0]
	if first.TicketType != "Vé tham quan" || first.AdultPrice != 250000 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.Name != "Tràng An" || first.Province != "Ninh Bình" {
		t.Fatalf("place metadata missing: %+v", first)
	}
	if first.OpenTime != "07:00:00" || first.CloseTime != "17:00:00" || first.IsClosed {
		t.Fatalf("opening hours missing: %+v", first)
	}
}

func TestFindTicketsBySlug_NoHoursForWeekday(t *testing.T) {
	db := newTestDB(t)
	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	seedPlace(t, db, "trang-an", true, monday)

	// Query on a day with no opening-hours row: ticket rows still come back,
	// hour fields are empty via COALESCE.
	sunday := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	rows, err := FindTicketsBySlug(context.Background(), db, "trang-an", sunday)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].OpenTime != "" || rows[0].CloseTime != "" || rows[0].IsClosed {
		t.Fatalf("expected empty hour fields, got %+v", rows[0])
	}
}

func TestFindTicketsBySlug_UnknownSlug(t *testing.T) {
	db := newTestDB(t)
	rows, err := FindTicketsBySlug(context.Background(), db, "nope", time.Now())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestFindTicketsBySlug_InactivePlaceHidden(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	seedPlace(t, db, "closed-down", false, now)

	rows, err := FindTicketsBySlug(context.Background(), db, "closed-down", now)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("inactive place leaked %d rows", len(rows))
	}
}
