package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/config"
	"github.com/fairlines/engine/internal/crash"
	"github.com/fairlines/engine/internal/database"
	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/event"
	"github.com/fairlines/engine/internal/fairness"
	"github.com/fairlines/engine/internal/handler"
	"github.com/fairlines/engine/internal/history"
	"github.com/fairlines/engine/internal/ledger"
	"github.com/fairlines/engine/internal/logger"
	repo "github.com/fairlines/engine/internal/repository/postgres"
	"github.com/fairlines/engine/internal/scheduler"
	"github.com/fairlines/engine/internal/server"
	"github.com/fairlines/engine/internal/worker"
)

const (
	ServiceName        = "fair-engine"
	ShutdownTimeout    = 10 * time.Second
	DeadLetterFilePath = "events.deadletter.jsonl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration failed", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Event pipeline: in-memory bus behind a retrying publisher with a
	// dead-letter file for undeliverable notifications.
	deadLetter, err := event.NewDeadLetterWriter(DeadLetterFilePath)
	if err != nil {
		logger.Error("Failed to open dead letter file", "error", err)
		os.Exit(1)
	}
	defer deadLetter.Close()

	bus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{DeadLetter: deadLetter})

	// Balance service and round archive: Postgres when configured, otherwise
	// the in-memory ledger.
	var (
		balance ledger.Balance
		pinger  handler.Pinger
		archive *repo.RoundArchive
	)
	if cfg.DatabaseConfigured() {
		dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultPoolOptions())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		balance = repo.NewBalanceStore(dbPool)
		pinger = dbPool

		archive = repo.NewRoundArchive(dbPool)
		bus.Subscribe(event.Type(domain.EventRoundSettled), func(ctx context.Context, ev event.Event) error {
			payload, ok := ev.Payload.(event.RoundSettledPayloadV1)
			if !ok {
				return nil
			}
			return archive.SaveRound(ctx, payload.Summary)
		})
	} else {
		logger.Warn("No database configured, using in-memory balances")
		balance = ledger.NewMemoryBalance()
	}

	store, err := history.NewStore(cfg.HistorySize)
	if err != nil {
		logger.Error("Failed to create history store", "error", err)
		os.Exit(1)
	}

	// Reload recent rounds from the archive so the history API and the round
	// sequence survive a restart.
	var startSequence uint64
	if archive != nil {
		startSequence, err = store.WarmFrom(ctx, archive, cfg.HistorySize)
		if err != nil {
			logger.Warn("Failed to warm history from archive", "error", err)
		}
	}

	pool := worker.NewPool(worker.DefaultWorkers, worker.DefaultQueueSize)
	pool.Start()
	defer pool.Stop()

	sched := scheduler.New(fairness.New(), publisher, store, pool, balance, scheduler.Config{
		HouseEdge:     cfg.HouseEdge,
		MaxMultiplier: cfg.MaxMultiplier,
		Countdown:     cfg.Countdown,
		TickInterval:  cfg.TickInterval,
		RoundPause:    cfg.RoundPause,
		Currency:      cfg.Currency,
		StartSequence: startSequence,
		Round: crash.Config{
			GrowthConstant:  cfg.GrowthConstant,
			MinStake:        decimal.NewFromFloat(cfg.MinStake),
			MaxStake:        decimal.NewFromFloat(cfg.MaxStake),
			MaxParticipants: cfg.MaxPlayers,
		},
	})

	schedulerDone := make(chan error, 1)
	go func() {
		schedulerDone <- sched.Run(ctx)
	}()

	srv := server.NewServer(cfg.Port, store, sched, pinger)
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-schedulerDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Scheduler stopped", "error", err)
		}
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}
