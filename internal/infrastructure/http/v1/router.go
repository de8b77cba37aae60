package v1

import (
	"github.com/gin-gonic/gin"

	"aquaops/internal/app"
	"aquaops/internal/infrastructure/http/v1/handlers"
	"aquaops/internal/infrastructure/http/v1/middleware"
	"aquaops/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Services *app.Services

	// Logger for request logging
	Logger *logger.Logger

	// Tokens validates bearer tokens
	Tokens middleware.TokenValidator

	// Idempotency enables X-Idempotency-Key handling when non-nil
	Idempotency middleware.IdempotencyStore

	// DB is pinged by the readiness probe; nil for the in-memory store
	DB      handlers.Pinger
	Storage string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Storage)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Tokens))
	if cfg.Idempotency != nil {
		api.Use(middleware.Idempotency(cfg.Idempotency))
	}

	base := handlers.NewBaseHandler()
	registerLedgerRoutes(api, base, cfg.Services)
	registerCatalogRoutes(api, base, cfg.Services)
	registerRecordRoutes(api, base, cfg.Services)
	registerReportRoutes(api, base, cfg.Services)

	return router
}

// registerLedgerRoutes registers the inventory and bottle usage registers.
func registerLedgerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	inv := handlers.NewInventoryHandler(base, s.Inventory)
	inventory := rg.Group("/inventory", middleware.RequireRole(AdminOnly...))
	{
		inventory.POST("/setup", inv.Setup)
		inventory.GET("", inv.Get)
		inventory.POST("/bottles", inv.AddBottles)
		inventory.POST("/damage", inv.RecordDamage)
		inventory.PUT("", inv.Edit)
	}

	uh := handlers.NewUsageHandler(base, s.Usage)
	usage := rg.Group("/usage")
	{
		usage.GET("/today", middleware.RequireRole(AnyRole...), uh.Today)
		usage.POST("/take", middleware.RequireRole(AnyRole...), uh.Take)
		usage.POST("/return", middleware.RequireRole(AnyRole...), uh.Return)
		usage.POST("/done", middleware.RequireRole(AnyRole...), uh.Done)
		usage.GET("", middleware.RequireRole(AdminOnly...), uh.List)
		usage.DELETE("/:moderatorId/:day", middleware.RequireRole(AdminOnly...), uh.Reset)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	RegisterResourceRoutes(rg.Group("/customers"),
		handlers.NewCustomerHandler(base, s.Customers),
		RouteAccess{Read: AnyRole, Write: AdminOnly})
	RegisterResourceRoutes(rg.Group("/moderators"),
		handlers.NewModeratorHandler(base, s.Moderators),
		RouteAccess{Read: AdminOnly, Write: AdminOnly})
}

// registerRecordRoutes registers deliveries, walk-in sales and expenses.
// Ownership and the same-day rule are enforced by the services.
func registerRecordRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	access := RouteAccess{Read: AnyRole, Write: AnyRole}
	RegisterResourceRoutes(rg.Group("/deliveries"), handlers.NewDeliveryHandler(base, s.Deliveries), access)
	RegisterResourceRoutes(rg.Group("/miscellaneous"), handlers.NewMiscellaneousHandler(base, s.Miscellaneous), access)
	RegisterResourceRoutes(rg.Group("/expenses"), handlers.NewExpenseHandler(base, s.Expenses), access)
}

func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s *app.Services) {
	reports := handlers.NewReportsHandler(base, s.Reports)
	rg.GET("/reports/daily", middleware.RequireRole(AnyRole...), reports.Daily)

	auditHandler := handlers.NewAuditHandler(base, s.Audit)
	rg.GET("/audit/:entity/:id", middleware.RequireRole(AdminOnly...), auditHandler.History)
}
