// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the pricing projection query.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/domain"
)

// FindTicketsBySlug returns every ticket row for the active place with the
// given slug, cross-referenced with the opening hours for now's weekday
// (0 = Sunday). Exact slug match only; rows come back in storage order and
// are neither deduplicated nor ranked. An unknown slug yields an empty slice
// and no error.
func FindTicketsBySlug(ctx context.Context, db *gorm.DB, slug string, now time.Time) ([]domain.TicketQuote, error) {
	var rows []domain.TicketQuote
	err := db.WithContext(ctx).Raw(`
		SELECT p.name, p.slug, p.province, t.ticket_type, t.adult_price, t.child_price, t.notes,
		       COALESCE(oh.open_time, '')  AS open_time,
		       COALESCE(oh.close_time, '') AS close_time,
		       COALESCE(oh.is_closed, 0)   AS is_closed
		FROM tickets t
		JOIN places p ON p.id = t.place_id
		LEFT JOIN opening_hours oh ON oh.place_id = p.id AND oh.day_of_week = ?
		WHERE p.slug = ? AND p.is_active = ?
		ORDER BY t.id`,
		int(now.Weekday()), slug, true).
		Scan(&rows).Error
	return rows, err
}
