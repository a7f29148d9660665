package guard

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tdoan/go-travel-bot/internal/repo"
)

// RateWindow configures the durable fixed-window limiter: non-overlapping
// buckets of Size, at most Max requests per user per bucket.
type RateWindow struct {
	Size time.Duration
	Max  int
}

type rateConfig struct {
	size time.Duration
	max  int
}

// AllowRate counts the request against the user's current fixed window and
// reports whether it stays within the threshold. Window starts are aligned
// to fixed-origin buckets (now truncated to the window size), and the
// increment-and-read is one atomic statement. Storage errors resolve
// according to FailOpen.
func (g *Guard) AllowRate(ctx context.Context, userID string, now time.Time) bool {
	windowStart := now.UTC().Truncate(g.rate.size)
	count, err := repo.IncrementRateWindow(ctx, g.DB, userID, windowStart)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).
			Bool("fail_open", g.FailOpen).
			Msg("rate window increment failed")
		return g.FailOpen
	}
	if count > g.rate.max {
		log.Warn().Str("user_id", userID).Int("count", count).
			Time("window_start", windowStart).
			Msg("rate limit exceeded")
		return false
	}
	return true
}
