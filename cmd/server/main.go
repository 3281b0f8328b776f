package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jjatencia/cashflow/internal/config"
	"github.com/jjatencia/cashflow/internal/infra"
	"github.com/jjatencia/cashflow/internal/repository"
	"github.com/jjatencia/cashflow/internal/router"
	"github.com/jjatencia/cashflow/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
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

	// External POS revenue provider — optional; everything degrades to zero
	// totals when the URL is unset or the breaker trips.
	var sales *infra.SalesAPIClient
	if cfg.SalesAPIURL != "" {
		cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
		sales = infra.NewSalesAPIClient(cfg.SalesAPIURL, rdb, cb, time.Duration(cfg.SalesCacheTTLMin)*time.Minute)
	}

	// Start goroutine worker pool for async tasks (closing report PDF, email).
	// Worker handlers are wired here (composition root) so that the pool has
	// full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	kv := repository.NewKVStore(db)
	recordRepo := repository.NewDailyRecordRepository(kv)
	movementRepo := repository.NewMovementRepository(kv)

	workerHandlers := &worker.WorkerHandlers{
		Cierre: worker.NewCierreWorker(recordRepo, movementRepo, dispatcher, cfg.PDFStoragePath, cfg.ReportEmail),
		Email:  worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, sales, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("cashflow backend listening on :%d", cfg.Port)
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
