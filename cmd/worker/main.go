// Package main is the entry point for the AquaOps background worker.
// It relays outbox events to WhatsApp and runs the maintenance jobs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aquaops/internal/config"
	"aquaops/internal/core/types"
	"aquaops/internal/infrastructure/notify"
	"aquaops/internal/infrastructure/notify/whatsapp"
	"aquaops/internal/infrastructure/scheduler"
	"aquaops/internal/infrastructure/storage/postgres"
	"aquaops/internal/infrastructure/storage/postgres/catalog_repo"
	"aquaops/internal/infrastructure/storage/postgres/register_repo"
	"aquaops/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to an env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	if cfg.Database.Storage != config.StoragePostgres {
		log.Fatalw("worker requires STORAGE=postgres", "storage", cfg.Database.Storage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting aquaops worker")

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.ApplicationName = "aquaops-worker"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	// A nil sender keeps the relay draining while WhatsApp is unconfigured.
	var sender notify.Sender
	if cfg.WhatsApp.Enabled() {
		sender = whatsapp.NewClient(cfg.WhatsApp)
		log.Infow("whatsapp notifications enabled", "phone_number_id", cfg.WhatsApp.PhoneNumberID)
	} else {
		log.Warn("whatsapp not configured: receipts are logged, not sent")
	}

	relay := postgres.NewOutboxRelay(txm, cfg.Worker.OutboxBatchSize, notify.NewDispatcher(sender))
	maintenance := postgres.NewMaintenance(txm)
	reminder := notify.NewReminder(
		register_repo.NewUsageRepo(txm),
		catalog_repo.NewModeratorRepo(txm),
		sender,
		types.NewClock(cfg.Location(), nil),
	)

	sched := scheduler.New(cfg.Location(), log)
	sched.Every("outbox_relay", cfg.Worker.OutboxPollInterval, func(ctx context.Context) error {
		n, err := relay.ProcessBatch(ctx)
		if n > 0 {
			log.Debugw("outbox batch processed", "count", n)
		}
		return err
	})
	mustSchedule(log, sched.AddCron("cleanup", cfg.Worker.CleanupSchedule, func(ctx context.Context) error {
		removed, err := maintenance.Cleanup(ctx)
		if err != nil {
			return err
		}
		log.Infow("cleanup finished", "removed", removed)
		return nil
	}))
	mustSchedule(log, sched.AddCron("outbox_dlq", cfg.Worker.DLQSchedule, func(ctx context.Context) error {
		moved, err := relay.MoveToDLQ(ctx)
		if moved > 0 {
			log.Warnw("outbox messages moved to dead letter queue", "count", moved)
		}
		return err
	}))
	mustSchedule(log, sched.AddCron("day_close_reminder", cfg.Worker.ReminderSchedule, func(ctx context.Context) error {
		sent, err := reminder.Run(ctx)
		if sent > 0 {
			log.Infow("day close reminders sent", "count", sent)
		}
		return err
	}))
	sched.Start()

	<-ctx.Done()
	log.Info("shutting down worker...")
	sched.Stop()
	log.Info("worker stopped")
}

func mustSchedule(log *logger.Logger, err error) {
	if err != nil {
		log.Fatalw("invalid cron schedule", "error", err)
	}
}
