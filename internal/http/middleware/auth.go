// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements WebhookAuth, the guard for the Telegram webhook route.
// Telegram echoes the secret configured via setWebhook back in the
// X-Telegram-Bot-Api-Secret-Token header of every delivery; requests without
// a matching value cannot have originated from the Bot API.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// secretTokenHeader is the header Telegram attaches to webhook deliveries.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookAuth returns a Gin middleware that verifies the Telegram webhook
// secret token.
//
// Behavior:
//   - secret configured, header matches: request proceeds.
//   - secret configured, header missing or wrong: 401 with a minimal body.
//     The mismatch is the one webhook failure NOT masked as 200: a caller
//     that fails auth is by definition not Telegram, so there is no retry
//     storm to protect against.
//   - secret not configured: every request proceeds; a warning is logged once
//     per request so a misconfigured deployment is visible in logs.
//
// Comparison is constant-time to avoid leaking secret prefixes via timing.
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			log.Warn().Msg("webhook secret not configured; accepting unauthenticated webhook traffic")
			c.Next()
			return
		}

		got := c.GetHeader(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			log.Warn().Str("remote", c.ClientIP()).Msg("webhook secret mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "invalid webhook secret",
			})
			return
		}
		c.Next()
	}
}
