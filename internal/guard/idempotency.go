// Package guard implements the two external-state checks that run before any
// update is dispatched: idempotency claiming of Telegram update IDs and a
// durable fixed-window rate limiter. Both are backed by the relational store
// through single atomic statements.
//
// Failure policy: when the guard storage itself is unreachable, the guards
// can fail open: processing continues and the incident is logged. The
// tradeoff (availability over strict dedup/limiting in the degraded case) is
// deliberate and configurable via FailOpen.
package guard

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/repo"
)

// Guard bundles the durable pre-dispatch checks and their shared policy.
type Guard struct {
	DB *gorm.DB

	// FailOpen allows processing when the backing store errors.
	FailOpen bool

	rate rateConfig
}

// New constructs a Guard with the given rate-window settings.
func New(db *gorm.DB, failOpen bool, window RateWindow) *Guard {
	return &Guard{
		DB:       db,
		FailOpen: failOpen,
		rate:     rateConfig{size: window.Size, max: window.Max},
	}
}

// ClaimUpdate records updateID as processed and reports whether the caller
// may proceed. Updates without an ID (zero) always pass: idempotency is only
// enforced when the upstream system supplies a stable key. A duplicate claim
// short-circuits; a storage error resolves according to FailOpen.
func (g *Guard) ClaimUpdate(ctx context.Context, updateID int64, userID string) bool {
	if updateID == 0 {
		return true
	}
	claimed, err := repo.ClaimUpdate(ctx, g.DB, updateID, userID)
	if err != nil {
		log.Error().Err(err).Int64("update_id", updateID).
			Bool("fail_open", g.FailOpen).
			Msg("idempotency claim failed")
		return g.FailOpen
	}
	if !claimed {
		log.Info().Int64("update_id", updateID).Msg("duplicate update suppressed")
	}
	return claimed
}

// ReleaseUpdate rolls back the idempotency claim after a downstream failure
// so that a retried delivery of the same update is reprocessed from scratch.
// Release errors are logged, never propagated: at this point the dispatch has
// already failed and there is nobody left to hand the error to.
func (g *Guard) ReleaseUpdate(ctx context.Context, updateID int64) {
	if updateID == 0 {
		return
	}
	if err := repo.ReleaseUpdate(ctx, g.DB, updateID); err != nil {
		log.Error().Err(err).Int64("update_id", updateID).
			Msg("idempotency rollback failed")
		return
	}
	log.Info().Int64("update_id", updateID).Msg("idempotency claim rolled back")
}
