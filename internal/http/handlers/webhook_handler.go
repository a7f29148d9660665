// Package handlers – Telegram webhook endpoint
//
// This file implements the webhook ingress. Its contract with Telegram is the
// one rule everything else bends around: the endpoint ALWAYS answers 200 once
// the secret check has passed, whatever happens inside. A non-2xx status makes
// Telegram re-deliver the update, and re-delivery of an update the service has
// already accepted, suppressed, or failed on is handled by the idempotency
// guard, not by HTTP status codes.
//
// Admission order per update: parse → rate quota → idempotency claim →
// background dispatch. The HTTP response is written before processing
// finishes; the dispatch outcome is only observable via logs and metrics.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tdoan/go-travel-bot/internal/guard"
	"github.com/tdoan/go-travel-bot/internal/http/middleware"
	"github.com/tdoan/go-travel-bot/internal/telegram"
)

// Dispatcher is the background pipeline contract required by the webhook.
type Dispatcher interface {
	HandleUpdate(ctx context.Context, upd *telegram.Update)
}

// WebhookHandler accepts Telegram update deliveries.
type WebhookHandler struct {
	Guard    *guard.Guard
	Dispatch Dispatcher

	// Budget bounds one background dispatch; the detached context is
	// cancelled when it elapses.
	Budget time.Duration
}

// NewWebhookHandler wires the webhook ingress.
func NewWebhookHandler(g *guard.Guard, d Dispatcher, budget time.Duration) *WebhookHandler {
	return &WebhookHandler{Guard: g, Dispatch: d, Budget: budget}
}

// HandleUpdate is the POST /webhook/telegram handler.
//
// Responses are plain text and, past auth, always 200:
//   - "OK"                  accepted (or ignored: malformed / no text)
//   - "Rate limit exceeded" user over quota, update dropped
//   - "Duplicate suppressed" update_id already claimed, update dropped
func (h *WebhookHandler) HandleUpdate(c *gin.Context) {
	var upd telegram.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		// A body we cannot parse will never parse on retry either; ack it.
		middleware.BotUpdates.WithLabelValues("malformed").Inc()
		log.Warn().Err(err).Msg("malformed webhook payload")
		c.String(http.StatusOK, "OK")
		return
	}

	msg := upd.Incoming()
	if msg == nil || msg.Text == "" || msg.From == nil {
		// Non-text updates (photos, stickers, member events) are out of scope.
		c.String(http.StatusOK, "OK")
		return
	}
	userID := strconv.FormatInt(msg.From.ID, 10)

	ctx := c.Request.Context()
	if !h.Guard.AllowRate(ctx, userID, time.Now()) {
		middleware.BotUpdates.WithLabelValues("rate_limited").Inc()
		c.String(http.StatusOK, "Rate limit exceeded")
		return
	}

	if !h.Guard.ClaimUpdate(ctx, upd.UpdateID, userID) {
		middleware.BotUpdates.WithLabelValues("duplicate").Inc()
		c.String(http.StatusOK, "Duplicate suppressed")
		return
	}

	middleware.BotUpdates.WithLabelValues("accepted").Inc()

	// Process detached from the request context: the HTTP response must not
	// wait for Telegram sends or the places fallback, and cancelling the
	// request must not abort a claimed update.
	go h.dispatch(&upd)

	c.String(http.StatusOK, "OK")
}

// dispatch runs one update in the background under the configured budget.
// The dispatcher has its own panic recovery and rollback; the recover here is
// the final backstop so a goroutine can never crash the process.
func (h *WebhookHandler) dispatch(upd *telegram.Update) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.Budget)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Int64("update_id", upd.UpdateID).
				Interface("panic", r).
				Msg("background dispatch panicked")
		}
		middleware.BotDispatchLat.Observe(time.Since(start).Seconds())
	}()

	h.Dispatch.HandleUpdate(ctx, upd)
}
