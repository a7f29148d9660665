// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - The webhook route carries its own auth and its own always-200 posture
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tdoan/go-travel-bot/internal/config"
	"github.com/tdoan/go-travel-bot/internal/http/handlers"
	"github.com/tdoan/go-travel-bot/internal/http/middleware"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. The Dispatcher is the fully wired background pipeline; the guard is
// reached through it and through the webhook handler.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Security headers
//
// The edge token-bucket limiter is NOT engine-wide: it fronts the
// operational routes only. Telegram deliveries must never be answered with
// 429 (a failed webhook triggers upstream retries); over-quota webhook
// traffic is handled by the durable per-user guard behind the handler,
// which acknowledges with 200 "Rate limit exceeded".
//
// The webhook route additionally runs WebhookAuth before the handler; a
// secret mismatch is the only path that answers non-200 there.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, wh *handlers.WebhookHandler, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB; Telegram updates are far smaller)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics
	r.Use(middleware.Metrics())

	// 7) Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStore:    false,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Operational endpoints, behind the edge token-bucket limiter per client
	// IP. The webhook route stays outside this group on purpose: its quota
	// is the durable guard's, and its over-quota answer is a 200.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	hh := &handlers.HealthHandler{DB: db}
	ops := r.Group("/", rl.Handler())
	ops.GET("/metrics", gin.WrapH(promhttp.Handler()))
	ops.GET("/healthz", hh.Healthz)

	// Telegram ingress
	r.POST("/webhook/telegram",
		middleware.WebhookAuth(cfg.Telegram.WebhookSecret),
		wh.HandleUpdate,
	)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
