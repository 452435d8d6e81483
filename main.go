package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"medtrack/m/internal/api"
	"medtrack/m/internal/config"
	"medtrack/m/internal/database"
	"medtrack/m/internal/logger"
	"medtrack/m/internal/migrations"
	"medtrack/m/internal/repository"
	"medtrack/m/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Log, cfg.Primary.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	if cfg.Seed.Enabled {
		n, err := seed.Inventory(ctx, db, cfg.Seed.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed inventory")
		}
		log.Info().Int("rows", n).Msg("inventory seeded")
	}

	repo := repository.New(db)
	handler := api.New(repo, repo, log, api.Options{
		StaticDir:         cfg.Server.StaticDir,
		AllowedOrigins:    cfg.Server.AllowedOrigins(),
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown HTTP server")
		}
	}()

	log.Info().
		Str("port", cfg.Server.Port).
		Str("driver", cfg.Database.Driver).
		Str("static_dir", cfg.Server.StaticDir).
		Msg("pharmacy server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}
