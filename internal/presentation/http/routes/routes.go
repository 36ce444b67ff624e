package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/config"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/internal/presentation/http/handler"
	"github.com/sangkips/repairpos/internal/presentation/http/middleware"
	"github.com/sangkips/repairpos/pkg/utils"
)

// RoleManager may change store settings.
const RoleManager = "manager"

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Transaction *handler.TransactionHandler
	Offline     *handler.OfflineHandler
	Inventory   *handler.InventoryHandler
	Customer    *handler.CustomerHandler
	Drawer      *handler.DrawerHandler
	Printer     *handler.PrinterHandler
	Settings    *handler.SettingsHandler
	Health      *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.EmployeeRateLimiter
}

// NewRateLimiter builds the per-employee limiter from the rate limit settings.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.EmployeeRateLimiter {
	perSecond := 0.0
	if cfg.Duration > 0 {
		perSecond = float64(cfg.Requests) / float64(cfg.Duration)
	}
	return middleware.NewEmployeeRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: perSecond,
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idem := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

	registerTransactionRoutes(protected, h, idem)

	offline := protected.Group("/offline")
	{
		offline.GET("/queue", h.Offline.GetQueue)
		offline.POST("/sync", h.Offline.Sync)
	}

	inventory := protected.Group("/inventory")
	{
		inventory.GET("", h.Inventory.ListItems)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.GET("/:id", h.Inventory.GetItem)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", middleware.Idempotency(idem), h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
	}

	drawer := protected.Group("/drawer")
	drawer.Use(middleware.Idempotency(idem))
	{
		drawer.POST("/open", h.Drawer.OpenDrawer)
		drawer.GET("/current", h.Drawer.GetCurrent)
		drawer.POST("/:id/close", h.Drawer.CloseDrawer)
	}

	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.GET("/jobs", h.Printer.GetJobs)
		printer.POST("/test", h.Printer.TestPrint)
	}

	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequireRole(RoleManager), h.Settings.UpdateSettings)
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, idem middleware.IdempotencyConfig) {
	transactions := protected.Group("/transactions")
	{
		transactions.POST("", middleware.IdempotencyRequired(idem), h.Transaction.CreateTransaction)
		transactions.GET("", h.Transaction.ListTransactions)
		transactions.GET("/:id", h.Transaction.GetTransaction)
		transactions.POST("/:id/void", middleware.Idempotency(idem), h.Transaction.VoidTransaction)
		transactions.POST("/:id/refund", middleware.Idempotency(idem), h.Transaction.RefundTransaction)
		transactions.GET("/:id/receipt", h.Transaction.GetReceipt)
		transactions.POST("/:id/print", h.Transaction.PrintReceipt)
	}
}
