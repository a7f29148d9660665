// Package services – TicketService
//
// This file implements TicketService, the resolver behind the ticket-price
// intent. It coordinates normalization, alias resolution, slugification, the
// local pricing query, and the places-API fallback, and formats the final
// user-facing message.
//
// Resolution order matters: the local store is authoritative (source "db");
// the HERE fallback only ever produces labelled estimates (source
// "api_estimate") because the API carries no pricing data.
//
// Observability: GetPrice is OpenTelemetry-instrumented; spans carry the
// resolved slug and the chosen source.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/domain"
	"github.com/tdoan/go-travel-bot/internal/places"
	"github.com/tdoan/go-travel-bot/internal/repo"
	"github.com/tdoan/go-travel-bot/internal/text"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PlacesAPI is the fallback search contract required by TicketService.
// Implementations must honor the context deadline strictly; the resolver
// treats any overrun as a circuit-breaker trip.
type PlacesAPI interface {
	Discover(ctx context.Context, q string) (*places.Item, error)
}

// TicketService resolves ticket prices for named places.
type TicketService struct {
	// DB is the GORM handle used for alias and pricing lookups.
	DB *gorm.DB
	// Places is the external fallback; may be a test double.
	Places PlacesAPI

	printer *message.Printer
	now     func() time.Time
}

// NewTicketService constructs a TicketService with vi-VN price formatting.
func NewTicketService(db *gorm.DB, api PlacesAPI) *TicketService {
	return &TicketService{
		DB:      db,
		Places:  api,
		printer: message.NewPrinter(language.Vietnamese),
		now:     time.Now,
	}
}

// GetPrice resolves pricing for the extracted entity text.
//
// Pipeline: empty entity → clarify (no I/O); otherwise normalize → alias
// (falling back to the normalized text itself) → slugify → local store; on a
// store miss, the HERE fallback under its hard timeout. Store and alias
// failures propagate as errors for the dispatcher to handle; fallback
// failures degrade into a user-facing apology.
func (s *TicketService) GetPrice(ctx context.Context, entityName string) (Response, error) {
	tr := otel.Tracer("services/TicketService")
	ctx, span := tr.Start(ctx, "GetPrice",
		trace.WithAttributes(attribute.String("entity", entityName)),
	)
	defer span.End()

	if strings.TrimSpace(entityName) == "" {
		return Response{Success: false, Type: TypeClarify, Message: msgClarify}, nil
	}

	normalized := text.Normalize(entityName)
	canonical, err := repo.ResolveAlias(ctx, s.DB, normalized)
	if err != nil {
		return Response{}, err
	}
	if canonical == "" {
		canonical = normalized
	}
	slug := text.Slugify(canonical)
	span.SetAttributes(attribute.String("slug", slug))

	rows, err := repo.FindTicketsBySlug(ctx, s.DB, slug, s.now())
	if err != nil {
		return Response{}, err
	}
	if len(rows) > 0 {
		span.SetAttributes(attribute.String("source", SourceDB))
		return s.formatLocal(rows, canonical), nil
	}

	span.SetAttributes(attribute.String("source", SourceAPIEstimate))
	return s.fallbackToAPI(ctx, canonical), nil
}

// formatLocal renders authoritative rows from the store: one block per
// ticket type, zero prices rendered as free, plus same-day opening hours and
// province when present. Rows are shown in storage order, undeduplicated.
func (s *TicketService) formatLocal(rows []domain.TicketQuote, name string) Response {
	display := rows[0].Name
	if display == "" {
		display = name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎫 <b>Giá vé %s</b>\n\n", display)

	for _, t := range rows {
		fmt.Fprintf(&b, "• <b>%s</b>:\n", t.TicketType)
		fmt.Fprintf(&b, "  💰 Người lớn: %s\n", s.formatPrice(t.AdultPrice))
		fmt.Fprintf(&b, "  👶 Trẻ em: %s\n", s.formatPrice(t.ChildPrice))
		if t.Notes != "" && t.Notes != "Miễn phí" {
			fmt.Fprintf(&b, "  📝 %s\n", t.Notes)
		}
		b.WriteString("\n")
	}

	first := rows[0]
	switch {
	case first.IsClosed:
		b.WriteString("⏰ Hôm nay: Đóng cửa\n")
	case first.OpenTime != "" && first.CloseTime != "":
		fmt.Fprintf(&b, "⏰ Giờ mở cửa hôm nay: %s – %s\n", clockHHMM(first.OpenTime), clockHHMM(first.CloseTime))
	}
	if first.Province != "" {
		fmt.Fprintf(&b, "📍 %s\n", first.Province)
	}

	return Response{
		Success: true,
		Type:    TypeTicketPrice,
		Source:  SourceDB,
		Data:    rows,
		Message: strings.TrimSpace(b.String()),
	}
}

// fallbackToAPI consults the HERE Discover endpoint and synthesizes a
// clearly-labelled price estimate from the result's category, since the API
// has no authoritative pricing. Timeouts and upstream errors degrade into
// the generic apology; the raw error never reaches the user.
func (s *TicketService) fallbackToAPI(ctx context.Context, name string) Response {
	item, err := s.Places.Discover(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, places.ErrTimeout) || errors.Is(err, context.DeadlineExceeded):
			log.Warn().Str("entity", name).Msg("places discover timed out")
		case errors.Is(err, context.Canceled):
			log.Warn().Str("entity", name).Msg("places discover canceled")
		default:
			log.Error().Err(err).Str("entity", name).Msg("places discover failed")
		}
		return Response{Success: false, Type: TypeError, Message: msgLookupBusy}
	}
	if item == nil {
		return Response{
			Success: false,
			Type:    TypeNotFound,
			Message: fmt.Sprintf(msgNotFoundFmt, name),
		}
	}

	band := estimateBand(item.PrimaryCategory())

	var b strings.Builder
	fmt.Fprintf(&b, "🎫 <b>Giá vé %s</b>\n\n", item.Title)
	b.WriteString("⚠️ Thông tin chưa có trong hệ thống — đây là ước tính tham khảo:\n\n")
	fmt.Fprintf(&b, "💰 Giá vé ước tính: %s\n", band)
	if item.Address.Label != "" {
		fmt.Fprintf(&b, "📍 Khu vực: %s\n", item.Address.Label)
	}
	if phone := firstContact(item, contactPhone); phone != "" {
		fmt.Fprintf(&b, "📞 %s\n", phone)
	}
	if site := firstContact(item, contactWWW); site != "" {
		fmt.Fprintf(&b, "🌐 %s\n", site)
	}
	b.WriteString("\n💡 Để có giá chính xác, vui lòng gọi điện hoặc truy cập website của địa điểm.")

	return Response{
		Success: true,
		Type:    TypeTicketPrice,
		Source:  SourceAPIEstimate,
		Data:    item,
		Message: b.String(),
	}
}

// formatPrice renders a VND amount with vi-VN digit grouping; zero means
// free admission, never "0đ".
func (s *TicketService) formatPrice(v int64) string {
	if v <= 0 {
		return "Miễn phí 🆓"
	}
	return s.printer.Sprintf("%d", v) + "đ"
}

// clockHHMM trims "HH:MM:SS" wall-clock strings to "HH:MM".
func clockHHMM(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// Category-to-band mapping for estimated prices. The bands are coarse VND
// ranges keyed on HERE category families; anything unrecognized gets the
// general sightseeing band.
func estimateBand(c places.Category) string {
	id := c.ID
	name := strings.ToLower(c.Name)
	switch {
	case strings.HasPrefix(id, "300-3200") || strings.Contains(name, "museum") || strings.Contains(name, "bảo tàng"):
		return "20.000 – 40.000 VNĐ"
	case strings.HasPrefix(id, "300-3100") || strings.Contains(name, "temple") || strings.Contains(name, "pagoda"):
		return "10.000 – 50.000 VNĐ"
	case strings.HasPrefix(id, "350-"):
		return "50.000 – 250.000 VNĐ"
	default:
		return "30.000 – 150.000 VNĐ"
	}
}

type contactKind int

const (
	contactPhone contactKind = iota
	contactWWW
)

func firstContact(item *places.Item, kind contactKind) string {
	for _, c := range item.Contacts {
		vals := c.Phone
		if kind == contactWWW {
			vals = c.WWW
		}
		for _, v := range vals {
			if v.Value != "" {
				return v.Value
			}
		}
	}
	return ""
}
