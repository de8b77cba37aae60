// Package main provides a CLI tool that prepares a fresh installation:
// it initialises the bottle inventory, registers a moderator and prints
// bearer tokens for an administrator and that moderator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"aquaops/internal/app"
	"aquaops/internal/config"
	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/domain"
	"aquaops/internal/domain/auth"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/infrastructure/cache"
	"aquaops/internal/infrastructure/storage/memory"
	"aquaops/internal/infrastructure/storage/postgres"
	"aquaops/pkg/logger"
)

type options struct {
	envFile        string
	totalBottles   int64
	depositBottles int64
	moderatorName  string
	moderatorPhone string
	moderatorAreas string
	adminID        string
}

func main() {
	var opts options
	flag.StringVar(&opts.envFile, "env", "", "path to an env file")
	flag.Int64Var(&opts.totalBottles, "total", 0, "total bottles owned by the plant (0 skips inventory setup)")
	flag.Int64Var(&opts.depositBottles, "deposit", 0, "bottles held as customer deposits")
	flag.StringVar(&opts.moderatorName, "moderator-name", os.Getenv("SETUP_MODERATOR_NAME"), "moderator name (empty skips)")
	flag.StringVar(&opts.moderatorPhone, "moderator-phone", os.Getenv("SETUP_MODERATOR_PHONE"), "moderator phone")
	flag.StringVar(&opts.moderatorAreas, "moderator-areas", os.Getenv("SETUP_MODERATOR_AREAS"), "comma separated delivery areas")
	flag.StringVar(&opts.adminID, "admin-id", "admin", "subject of the administrator token")
	flag.Parse()

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	var repos app.Repositories
	if cfg.Database.Storage == config.StorageMemory {
		log.Warn("in-memory storage: records created here are discarded on exit")
		repos = app.MemoryRepositories(memory.New())
	} else {
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("connected to database")

		repos, err = app.PostgresRepositories(postgres.NewTxManager(pool), cache.ChannelLedgerChanged)
		if err != nil {
			log.Fatalw("failed to build repositories", "error", err)
		}
	}

	services := app.New(repos, app.Options{
		Location:      cfg.Location(),
		ReceiptPrefix: cfg.App.ReceiptPrefix,
		MiscPrefix:    cfg.App.MiscPrefix,
	})

	admin := appctx.Actor{ID: opts.adminID, Name: "Administrator", Role: appctx.RoleAdmin}
	ctx = appctx.WithActor(ctx, &admin)

	if opts.totalBottles > 0 {
		if err := setupInventory(ctx, services.Inventory, opts, log); err != nil {
			log.Fatalw("failed to set up inventory", "error", err)
		}
	}

	var mod *moderator.Moderator
	if opts.moderatorName != "" {
		mod, err = ensureModerator(ctx, services.Moderators, opts, log)
		if err != nil {
			log.Fatalw("failed to create moderator", "error", err)
		}
	}

	tokens := auth.NewJWTService(auth.JWTConfig{Secret: cfg.Auth.JWTSecret, AccessTokenTTL: cfg.Auth.TokenTTL})
	printToken(tokens, admin, log)
	if mod != nil {
		printToken(tokens, appctx.Actor{ID: mod.ID.String(), Name: mod.Name, Role: appctx.RoleModerator}, log)
	}

	log.Info("setup completed successfully")
}

func setupInventory(ctx context.Context, svc *inventory.Service, opts options, log *logger.Logger) error {
	tb, err := svc.Setup(ctx, inventory.SetupInput{Total: opts.totalBottles, Deposit: opts.depositBottles})
	if apperror.HasCode(err, apperror.CodeConflict) {
		log.Info("inventory already set up, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	log.Infow("inventory set up", "total", tb.Total, "available", tb.Available, "deposit", tb.Deposit)
	return nil
}

// ensureModerator creates the moderator, or returns the existing one with
// the same phone.
func ensureModerator(ctx context.Context, svc *moderator.Service, opts options, log *logger.Logger) (*moderator.Moderator, error) {
	var areas []string
	for _, a := range strings.Split(opts.moderatorAreas, ",") {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}

	m, err := svc.Create(ctx, moderator.CreateInput{Name: opts.moderatorName, Phone: opts.moderatorPhone, Areas: areas})
	if err == nil {
		log.Infow("moderator created", "moderator_id", m.ID, "name", m.Name)
		return m, nil
	}
	if !apperror.HasCode(err, apperror.CodeDuplicate) {
		return nil, err
	}

	phone := strings.TrimSpace(opts.moderatorPhone)
	existing, err := svc.List(ctx, domain.ListFilter{Search: phone, Limit: 50})
	if err != nil {
		return nil, err
	}
	for _, m := range existing.Items {
		if m.Phone == phone {
			log.Infow("moderator already exists", "moderator_id", m.ID, "name", m.Name)
			return m, nil
		}
	}
	return nil, fmt.Errorf("moderator with phone %s reported as duplicate but not found", phone)
}

func printToken(tokens *auth.JWTService, actor appctx.Actor, log *logger.Logger) {
	token, expiresAt, err := tokens.GenerateAccessToken(actor)
	if err != nil {
		log.Fatalw("failed to issue token", "role", actor.Role, "error", err)
	}
	fmt.Printf("%s token (subject %s, expires %s):\n%s\n\n", actor.Role, actor.ID, expiresAt.Format("2006-01-02 15:04 MST"), token)
}
