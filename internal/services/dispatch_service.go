// Package services – DispatchService
//
// This file implements the top-level orchestrator for one Telegram update:
// session load → intent classification → resolver dispatch → reply send →
// session update. It runs in the background relative to the webhook
// acknowledgment, so failures here are only observable through logs and
// through the idempotency rollback that lets Telegram's retry reprocess the
// update.
//
// There is no intermediate checkpointing: any failure at any stage releases
// the update's idempotency claim and abandons the turn.
package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/tdoan/go-travel-bot/internal/domain"
	"github.com/tdoan/go-travel-bot/internal/guard"
	"github.com/tdoan/go-travel-bot/internal/intent"
	"github.com/tdoan/go-travel-bot/internal/telegram"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReplySender is the outbound messaging contract required by the dispatcher.
type ReplySender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// PriceResolver is the ticket-price contract required by the dispatcher.
type PriceResolver interface {
	GetPrice(ctx context.Context, entityName string) (Response, error)
}

// DispatchService drives the per-update pipeline.
type DispatchService struct {
	Tickets  PriceResolver
	Sessions *SessionService
	Guard    *guard.Guard
	Sender   ReplySender
}

// NewDispatchService wires the orchestrator.
func NewDispatchService(tickets PriceResolver, sessions *SessionService, g *guard.Guard, sender ReplySender) *DispatchService {
	return &DispatchService{Tickets: tickets, Sessions: sessions, Guard: g, Sender: sender}
}

// HandleUpdate processes one update to completion. An update without text is
// silently ignored (not an error). On any failure, including a panic in the
// pipeline, the idempotency claim is rolled back so a retried delivery of
// the same update_id is reprocessed from scratch.
func (d *DispatchService) HandleUpdate(ctx context.Context, upd *telegram.Update) {
	msg := upd.Incoming()
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Int64("update_id", upd.UpdateID).
				Interface("panic", r).
				Msg("dispatch panicked")
			d.Guard.ReleaseUpdate(ctx, upd.UpdateID)
		}
	}()

	if err := d.process(ctx, upd.UpdateID, msg); err != nil {
		log.Error().Err(err).Int64("update_id", upd.UpdateID).
			Msg("dispatch failed")
		d.Guard.ReleaseUpdate(ctx, upd.UpdateID)
	}
}

// process is the happy-path state machine; the first error is terminal.
func (d *DispatchService) process(ctx context.Context, updateID int64, msg *telegram.Message) error {
	tr := otel.Tracer("services/DispatchService")
	ctx, span := tr.Start(ctx, "HandleUpdate",
		trace.WithAttributes(attribute.Int64("update_id", updateID)),
	)
	defer span.End()

	userID := strconv.FormatInt(msg.From.ID, 10)

	sess, err := d.Sessions.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	log.Info().Int64("update_id", updateID).Str("user_id", userID).
		Int("turn_count", sess.Context.TurnCount).
		Msg("processing update")

	res := intent.Classify(msg.Text)
	span.SetAttributes(attribute.String("intent", string(res.Intent)))
	log.Info().Int64("update_id", updateID).
		Str("intent", string(res.Intent)).Str("entity", res.Entity).
		Msg("classified intent")

	var (
		resp       Response
		slugToSave string
	)
	switch res.Intent {
	case intent.GetTicketPrice:
		resp, err = d.Tickets.GetPrice(ctx, res.Entity)
		if err != nil {
			return fmt.Errorf("resolve price: %w", err)
		}
		// Remember the concrete slug only for authoritative answers, so a
		// later stateful turn can refer back to a real store row.
		if resp.Success && resp.Source == SourceDB {
			if rows, ok := resp.Data.([]domain.TicketQuote); ok && len(rows) > 0 {
				slugToSave = rows[0].Slug
			}
		}
	default:
		resp = Response{Success: false, Type: TypeUnknown, Message: msgUnknownIntent}
	}

	if err := d.Sender.SendMessage(ctx, msg.Chat.ID, resp.Message); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	if err := d.Sessions.UpdateAfterResponse(ctx, userID, res.Intent, res.Entity, slugToSave); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	log.Info().Int64("update_id", updateID).Str("type", string(resp.Type)).
		Msg("processed and replied")
	return nil
}
