// Package app wires repositories into the ledger services. Commands pick a
// storage backend and hand its repositories to New.
package app

import (
	"context"
	"fmt"
	"time"

	"aquaops/internal/core/tx"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/audit"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/documents/expense"
	"aquaops/internal/domain/documents/miscellaneous"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/domain/reports"
	"aquaops/internal/infrastructure/cache"
	"aquaops/internal/infrastructure/storage/memory"
	"aquaops/internal/infrastructure/storage/postgres"
	"aquaops/internal/infrastructure/storage/postgres/catalog_repo"
	"aquaops/internal/infrastructure/storage/postgres/document_repo"
	"aquaops/internal/infrastructure/storage/postgres/register_repo"
	"aquaops/internal/infrastructure/storage/postgres/report_repo"
	"aquaops/pkg/numerator"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager     tx.ReadOnlyManager
	Inventory     inventory.Repository
	Moderators    moderator.Repository
	Customers     customer.Repository
	Usage         usage.Repository
	Deliveries    delivery.Repository
	Miscellaneous miscellaneous.Repository
	Expenses      expense.Repository
	Reports       reports.Repository

	Audit     AuditStore
	Publisher ledger.EventPublisher
	Numbers   numerator.Generator

	// Invalidator runs after every commit next to the local inventory
	// cache. Postgres uses it to notify other instances.
	Invalidator ledger.Invalidator
	Retryable   ledger.RetryClassifier
}

// AuditStore writes and reads the audit trail.
type AuditStore interface {
	ledger.AuditWriter
	audit.Reader
}

// MemoryRepositories backs every repository with one in-memory store.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		TxManager:     store.TxManager(),
		Inventory:     store.Inventory(),
		Moderators:    store.Moderators(),
		Customers:     store.Customers(),
		Usage:         store.Usage(),
		Deliveries:    store.Deliveries(),
		Miscellaneous: store.Miscellaneous(),
		Expenses:      store.Expenses(),
		Reports:       store.Reports(),
		Audit:         store.Audit(),
		Publisher:     store.Outbox(),
		Numbers:       numerator.NewMemory(),
	}
}

// PostgresRepositories backs every repository with PostgreSQL. Committed
// changes are announced on channel for other instances.
func PostgresRepositories(txm *postgres.TxManager, channel string) (Repositories, error) {
	auditLog, err := postgres.NewAuditLog(txm)
	if err != nil {
		return Repositories{}, fmt.Errorf("create audit log: %w", err)
	}
	numbers := numerator.NewWithResolver(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	}, nil)

	return Repositories{
		TxManager:     txm,
		Inventory:     register_repo.NewInventoryRepo(txm),
		Moderators:    catalog_repo.NewModeratorRepo(txm),
		Customers:     catalog_repo.NewCustomerRepo(txm),
		Usage:         register_repo.NewUsageRepo(txm),
		Deliveries:    document_repo.NewDeliveryRepo(txm),
		Miscellaneous: document_repo.NewMiscellaneousRepo(txm),
		Expenses:      document_repo.NewExpenseRepo(txm),
		Reports:       report_repo.NewReportRepo(txm),
		Audit:         auditLog,
		Publisher:     postgres.NewOutboxPublisher(txm),
		Numbers:       numbers,
		Invalidator:   postgres.NewNotifier(txm, channel),
		Retryable:     postgres.IsRetryable,
	}, nil
}

// Options are the business settings of the services.
type Options struct {
	Location      *time.Location
	ReceiptPrefix string
	MiscPrefix    string
	Now           func() time.Time
}

// Services is the full set of ledger services.
type Services struct {
	Clock          *types.Clock
	InventoryCache *cache.InventoryCache

	Inventory     *inventory.Service
	Moderators    *moderator.Service
	Customers     *customer.Service
	Usage         *usage.Service
	Deliveries    *delivery.Service
	Miscellaneous *miscellaneous.Service
	Expenses      *expense.Service
	Reports       *reports.Service
	Audit         *audit.Service
}

// New builds the services on top of repos.
func New(repos Repositories, opts Options) *Services {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := types.NewClock(loc, opts.Now)
	inventoryCache := cache.NewInventoryCache(repos.Inventory)

	applierOpts := []ledger.Option{
		ledger.WithPublisher(repos.Publisher),
		ledger.WithAuditWriter(repos.Audit),
		ledger.WithInvalidator(ledger.Invalidators{inventoryCache, repos.Invalidator}),
	}
	if repos.Retryable != nil {
		applierOpts = append(applierOpts, ledger.WithRetryClassifier(repos.Retryable))
	}
	applier := ledger.NewApplier(repos.TxManager, applierOpts...)

	moderators := moderator.NewService(repos.Moderators, applier)
	customers := customer.NewService(repos.Customers, repos.Inventory, applier)
	usageSvc := usage.NewService(repos.Usage, repos.Inventory, moderators, applier, clock)

	return &Services{
		Clock:          clock,
		InventoryCache: inventoryCache,
		Inventory:      inventory.NewService(repos.Inventory, inventoryCache, applier),
		Moderators:     moderators,
		Customers:      customers,
		Usage:          usageSvc,
		Deliveries: delivery.NewService(
			repos.Deliveries, customers, usageSvc, repos.Inventory, applier, repos.Numbers, opts.ReceiptPrefix,
		),
		Miscellaneous: miscellaneous.NewService(
			repos.Miscellaneous, usageSvc, repos.Inventory, applier, repos.Numbers, opts.MiscPrefix,
		),
		Expenses: expense.NewService(repos.Expenses, applier, clock),
		Reports:  reports.NewService(repos.Reports, repos.Usage, repos.Moderators, repos.TxManager, clock),
		Audit:    audit.NewService(repos.Audit),
	}
}
