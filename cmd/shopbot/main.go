// Command shopbot runs the conversational shop backend: an HTTP gateway that
// drives per-user ordering dialogues over a SQLite-backed catalog and order
// store, with Prometheus metrics and optional OpenTelemetry tracing.
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

	"github.com/tbourn/go-shop-backend/internal/config"
	httpapi "github.com/tbourn/go-shop-backend/internal/http"
	"github.com/tbourn/go-shop-backend/internal/observability"
	"github.com/tbourn/go-shop-backend/internal/repo"
	"github.com/tbourn/go-shop-backend/internal/session"
	"github.com/tbourn/go-shop-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// sweepInterval is how often idle sessions and expired event ids are purged.
const sweepInterval = 5 * time.Minute

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	log.Info().Str("version", version).Str("port", cfg.Port).Msg("starting shop backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless OTEL_ENABLED)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("open database failed")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("gorm tracing not enabled")
		}
	}
	if err := repo.Bootstrap(ctx, db, cfg.AdminChatID); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	// Dialogue sessions
	sessions := session.NewManager(cfg.SessionTTL)

	// Periodic housekeeping: evict idle sessions, forget old event ids.
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				evicted := sessions.Evict(now)
				purged, err := repo.PurgeSeenEvents(ctx, db, now.Add(-cfg.EventDedupTTL))
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Msg("event purge failed")
				}
				if evicted > 0 || purged > 0 {
					log.Debug().Int("sessions_evicted", evicted).Int64("events_purged", purged).Msg("sweep")
				}
			}
		}
	}()

	// HTTP
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, sessions, log.Logger, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
