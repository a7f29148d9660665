// Package domain defines the persistence models for places, tickets, opening
// hours, and location aliases. These types are mapped with GORM and form the
// pricing data layer of the travel assistant.
package domain

import "time"

// Place represents a visitable location with a canonical URL-safe slug.
// Pricing rows and opening hours reference places by ID; lookups from user
// text always go through the slug.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Name: display name as shown to users (e.g. "Tràng An").
//   - Slug: canonical lowercase identifier (e.g. "trang-an"); unique.
//   - Province: administrative region, shown in replies when present.
//   - IsActive: inactive places are invisible to price lookups.
type Place struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	Name      string    `json:"name"      gorm:"type:varchar(255);not null"`
	Slug      string    `json:"slug"      gorm:"type:varchar(255);not null;uniqueIndex:ux_places_slug"`
	Province  string    `json:"province"  gorm:"type:varchar(128)"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Place.
func (Place) TableName() string { return "places" }

// Ticket is one priced admission type for a place. A place may carry several
// rows (standard, boat tour, free zone, ...); all of them are shown together.
//
// Prices are stored in whole VND. A price of zero means free admission.
type Ticket struct {
	ID         uint   `json:"id"          gorm:"primaryKey"`
	PlaceID    uint   `json:"place_id"    gorm:"not null;index:idx_tickets_place"`
	TicketType string `json:"ticket_type" gorm:"type:varchar(128);not null"`
	AdultPrice int64  `json:"adult_price" gorm:"not null;default:0"`
	ChildPrice int64  `json:"child_price" gorm:"not null;default:0"`
	Notes      string `json:"notes"       gorm:"type:text"`

	// Place is the priced location. Tickets are cascade-deleted with it.
	Place Place `json:"-" gorm:"foreignKey:PlaceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// OpeningHour records the daily schedule for a place, one row per weekday
// (0 = Sunday, matching SQL DOW). Times use "HH:MM:SS" wall-clock strings;
// replies render only the HH:MM prefix.
type OpeningHour struct {
	ID        uint   `json:"id"          gorm:"primaryKey"`
	PlaceID   uint   `json:"place_id"    gorm:"not null;uniqueIndex:ux_hours_place_day,priority:1"`
	DayOfWeek int    `json:"day_of_week" gorm:"not null;uniqueIndex:ux_hours_place_day,priority:2;check:day_of_week BETWEEN 0 AND 6"`
	OpenTime  string `json:"open_time"   gorm:"type:varchar(8)"`
	CloseTime string `json:"close_time"  gorm:"type:varchar(8)"`
	IsClosed  bool   `json:"is_closed"   gorm:"not null;default:false"`

	Place Place `json:"-" gorm:"foreignKey:PlaceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for OpeningHour.
func (OpeningHour) TableName() string { return "opening_hours" }

// LocationAlias maps a normalized user phrase to the canonical place name.
// Aliases are stored lowercased and trimmed; resolution is an exact match.
type LocationAlias struct {
	ID            uint   `json:"id"             gorm:"primaryKey"`
	Alias         string `json:"alias"          gorm:"type:varchar(255);not null;uniqueIndex:ux_aliases_alias"`
	CanonicalName string `json:"canonical_name" gorm:"type:varchar(255);not null"`
}

// TableName returns the database table name for LocationAlias.
func (LocationAlias) TableName() string { return "location_aliases" }

// TicketQuote is the read-only projection returned by the pricing query:
// one ticket row joined with its place and today's opening hours. Rows are
// never written through this shape.
type TicketQuote struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Province   string `json:"province"`
	TicketType string `json:"ticket_type"`
	AdultPrice int64  `json:"adult_price"`
	ChildPrice int64  `json:"child_price"`
	Notes      string `json:"notes"`
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"close_time"`
	IsClosed   bool   `json:"is_closed"`
}
