// Package main is the entry point for the AquaOps API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aquaops/internal/app"
	"aquaops/internal/config"
	"aquaops/internal/domain/auth"
	"aquaops/internal/infrastructure/cache"
	v1 "aquaops/internal/infrastructure/http/v1"
	"aquaops/internal/infrastructure/storage/memory"
	"aquaops/internal/infrastructure/storage/postgres"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting aquaops server", "storage", cfg.Database.Storage, "timezone", cfg.App.Timezone)

	routerCfg := v1.RouterConfig{
		Logger:  log,
		Tokens:  auth.NewJWTService(auth.JWTConfig{Secret: cfg.Auth.JWTSecret, AccessTokenTTL: cfg.Auth.TokenTTL}),
		Storage: cfg.Database.Storage,
	}
	opts := app.Options{
		Location:      cfg.Location(),
		ReceiptPrefix: cfg.App.ReceiptPrefix,
		MiscPrefix:    cfg.App.MiscPrefix,
	}

	var (
		repos app.Repositories
		pool  *postgres.Pool
	)
	switch cfg.Database.Storage {
	case config.StorageMemory:
		log.Warn("in-memory storage: data is lost on restart")
		repos = app.MemoryRepositories(memory.New())

	default:
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		poolCfg.MaxConns = cfg.Database.MaxConns
		pool, err = postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txm := postgres.NewTxManager(pool)
		repos, err = app.PostgresRepositories(txm, cache.ChannelLedgerChanged)
		if err != nil {
			log.Fatalw("failed to build repositories", "error", err)
		}
		routerCfg.DB = pool
		routerCfg.Idempotency = postgres.NewIdempotencyStore(txm, cfg.HTTP.IdempotencyTTL)

		go logPoolStats(ctx, pool)
	}

	services := app.New(repos, opts)
	routerCfg.Services = services

	if pool != nil {
		// Other instances announce their commits; drop our snapshot when they do.
		listener := cache.NewListener(pool.Unwrap(), services.InventoryCache)
		listener.Start(ctx)
		defer listener.Stop()
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	log.Info("server stopped")
}

func logPoolStats(ctx context.Context, pool *postgres.Pool) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			postgres.LogPoolStats(ctx, pool.Unwrap())
		}
	}
}
