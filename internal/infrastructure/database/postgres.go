package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/internal/config"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logging.MustGetLogger("database")

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.Infof("Successfully connected to PostgreSQL database %s on %s", cfg.Name, cfg.Host)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info("Running database migrations...")

	err := db.AutoMigrate(
		// Ledgers
		&entity.InventoryItem{},
		&entity.Customer{},

		// Sales
		&entity.Transaction{},
		&entity.TransactionItem{},
		&entity.CashDrawerSession{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.StoreSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// PingProbe reports whether the transaction store answers within timeout.
type PingProbe struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPingProbe wraps the pool behind db.
func NewPingProbe(db *gorm.DB, timeout time.Duration) (*PingProbe, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PingProbe{db: sqlDB, timeout: timeout}, nil
}

func (p *PingProbe) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		log.Debugf("transaction store unreachable: %v", err)
		return false
	}
	return true
}
