package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/config"
	domainRepo "github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/internal/infrastructure/database"
	"github.com/sangkips/repairpos/internal/infrastructure/messaging"
	"github.com/sangkips/repairpos/internal/infrastructure/repository"
	"github.com/sangkips/repairpos/internal/presentation/http/handler"
	"github.com/sangkips/repairpos/internal/presentation/http/routes"
	"github.com/sangkips/repairpos/pkg/printer"
	"github.com/sangkips/repairpos/pkg/utils"
)

var log = logging.MustGetLogger("main")

const idempotencySweepInterval = time.Hour

// publisher is the event sink shared by the drawer and transaction services.
type publisher interface {
	service.EventPublisher
	Close() error
}

func InitLogger(debug bool) {
	baseBackend := logging.NewLogBackend(os.Stdout, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s} %{module:-12s} %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	if debug {
		backendLeveled.SetLevel(logging.DEBUG, "")
	} else {
		backendLeveled.SetLevel(logging.INFO, "")
	}

	logging.SetBackend(backendLeveled)
}

func newPublisher(cfg config.EventsConfig) publisher {
	if cfg.URL == "" {
		return messaging.NoopPublisher{}
	}
	p, err := messaging.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Warningf("Failed to connect to event broker, events will be dropped: %v", err)
		return messaging.NoopPublisher{}
	}
	return p
}

func newTransport(cfg config.PrinterConfig) printer.Printer {
	transport, err := printer.NewPrinterFromConfig(printer.Options{
		Type:          cfg.Type,
		USBPath:       cfg.USBPath,
		BluetoothPath: cfg.BluetoothPath,
		Host:          cfg.Host,
		Port:          cfg.Port,
	})
	if err != nil {
		log.Warningf("Failed to initialize printer: %v", err)
		return printer.NewNullPrinter()
	}
	return transport
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warningf("Failed to delete expired idempotency keys: %v", err)
			}
		}
	}
}

func main() {
	cfg := config.Load()
	InitLogger(cfg.App.Debug)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	queueDB, err := database.NewSQLiteQueueDB(cfg.Offline.QueuePath)
	if err != nil {
		log.Fatalf("Failed to open offline queue: %v", err)
	}
	defer queueDB.Close()

	probe, err := database.NewPingProbe(db, cfg.Offline.ProbeTimeout)
	if err != nil {
		log.Fatalf("Failed to create connectivity probe: %v", err)
	}

	events := newPublisher(cfg.Events)
	defer events.Close()

	// Repositories
	transactionRepo := repository.NewTransactionRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	drawerRepo := repository.NewCashDrawerRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	queueRepo, err := repository.NewOfflineQueueRepository(queueDB, cfg.Offline.MaxEntries)
	if err != nil {
		log.Fatalf("Failed to prepare offline queue: %v", err)
	}

	// Services
	settingsService := service.NewSettingsService(settingsRepo, cfg.Store)
	printerService := service.NewPrinterService(newTransport(cfg.Printer), service.PrinterOptions{
		Name:        cfg.Printer.Name,
		Type:        cfg.Printer.Type,
		SendTimeout: cfg.Printer.SendTimeout,
		MaxAttempts: cfg.Printer.MaxAttempts,
		AutoDrain:   cfg.Printer.AutoDrain,
	}, settingsService)
	defer printerService.Close()

	drawerService := service.NewCashDrawerService(drawerRepo, printerService, settingsService, events)
	transactionService := service.NewTransactionService(
		transactionRepo,
		inventoryRepo,
		customerRepo,
		drawerService,
		settingsService,
		events,
	)
	syncService := service.NewSyncService(queueRepo, transactionService, probe)
	inventoryService := service.NewInventoryService(inventoryRepo)
	customerService := service.NewCustomerService(customerRepo)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	handlers := &routes.Handlers{
		Transaction: handler.NewTransactionHandler(transactionService, syncService, printerService),
		Offline:     handler.NewOfflineHandler(syncService),
		Inventory:   handler.NewInventoryHandler(inventoryService),
		Customer:    handler.NewCustomerHandler(customerService),
		Drawer:      handler.NewDrawerHandler(drawerService),
		Printer:     handler.NewPrinterHandler(printerService),
		Settings:    handler.NewSettingsHandler(settingsService),
		Health:      handler.NewHealthHandler(cfg.App.Name, syncService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	go syncService.Run(ctx, cfg.Offline.SyncInterval)
	go printerService.Run(ctx, time.Second)
	go sweepIdempotencyKeys(ctx, idempotencyRepo)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting %s server on port %s...", cfg.App.Name, port)
		log.Infof("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
}
