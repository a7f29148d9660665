// Command go-travel-bot runs the Telegram webhook service for the travel
// assistant: HTTP ingress, durable idempotency and rate guards, the intent →
// price-resolution pipeline, and the HERE places fallback.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tdoan/go-travel-bot/internal/config"
	"github.com/tdoan/go-travel-bot/internal/guard"
	httpapi "github.com/tdoan/go-travel-bot/internal/http"
	"github.com/tdoan/go-travel-bot/internal/http/handlers"
	"github.com/tdoan/go-travel-bot/internal/observability"
	"github.com/tdoan/go-travel-bot/internal/places"
	"github.com/tdoan/go-travel-bot/internal/repo"
	"github.com/tdoan/go-travel-bot/internal/services"
	"github.com/tdoan/go-travel-bot/internal/sysutil"
	"github.com/tdoan/go-travel-bot/internal/telegram"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging first so everything after is observable.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	log.Info().Str("version", version).Str("port", cfg.Port).Msg("starting go-travel-bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless OTEL_ENABLED).
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	// Store: opens, applies PRAGMAs, installs the tracing plugin.
	db, err := repo.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("store open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Guards and services.
	g := guard.New(db, cfg.GuardFailOpen, guard.RateWindow{Size: cfg.RateWindow, Max: cfg.RateMax})

	placesClient := places.New(cfg.Places.BaseURL, cfg.Places.APIKey,
		cfg.Places.BiasLat, cfg.Places.BiasLng, cfg.Places.Timeout)
	tickets := services.NewTicketService(db, placesClient)
	sessions := services.NewSessionService(db, cfg.SessionTTL)

	tg := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken, cfg.Telegram.SendRetries)
	dispatch := services.NewDispatchService(tickets, sessions, g, tg)

	// Register the webhook with Telegram when a public URL is provided;
	// otherwise assume it was configured out of band.
	if publicURL := sysutil.FirstNonEmpty(os.Getenv("WEBHOOK_PUBLIC_URL")); publicURL != "" {
		if err := tg.SetWebhook(ctx, publicURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Error().Err(err).Str("url", publicURL).Msg("setWebhook failed; continuing")
		} else {
			log.Info().Str("url", publicURL).Msg("webhook registered")
		}
	}

	// HTTP transport.
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	wh := handlers.NewWebhookHandler(g, dispatch, cfg.DispatchBudget)
	httpapi.RegisterRoutes(r, db, wh, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	// Graceful drain: in-flight requests get 10s; background dispatches run
	// under their own budget and survive until process exit or completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
}
