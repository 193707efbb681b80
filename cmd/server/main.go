package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/config"
	"github.com/SamBLC92/tamponi-inventario/internal/infra"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"
	"github.com/SamBLC92/tamponi-inventario/internal/router"
	"github.com/SamBLC92/tamponi-inventario/internal/service"
	"github.com/SamBLC92/tamponi-inventario/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger: pretty console in dev, JSON in prod
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	if err := os.MkdirAll(cfg.LabelsDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.LabelsDir).Msg("failed to create labels dir")
	}

	// Seed missing settings rows so thresholds and barcode parameters are
	// always readable.
	settingsSvc := service.NewSettingsService(repository.NewSettingsRepository(db))
	if err := settingsSvc.EnsureDefaults(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default settings")
	}

	r, workerHandlers := router.New(cfg, db, rdb)

	// Goroutine worker pool for async jobs (label rendering, alarm mails).
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("swab inventory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
