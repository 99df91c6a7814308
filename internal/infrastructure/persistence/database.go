package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wardrobe/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm handle together with the pool it runs on
type Database struct {
	DB   *gorm.DB
	pool *sql.DB
}

// Open connects to Postgres, sizes the pool from cfg and verifies the
// connection within ctx. A nil gormLog silences gorm.
func Open(ctx context.Context, cfg *config.DatabaseConfig, gormLog logger.Interface) (*Database, error) {
	if gormLog == nil {
		gormLog = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d, err := wrap(db)
	if err != nil {
		return nil, err
	}
	d.configurePool(cfg)

	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return d, nil
}

func wrap(db *gorm.DB) (*Database, error) {
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	return &Database{DB: db, pool: pool}, nil
}

func (d *Database) configurePool(cfg *config.DatabaseConfig) {
	minutes := func(n int) time.Duration { return time.Duration(n) * time.Minute }
	d.pool.SetMaxOpenConns(cfg.MaxOpenConns)
	d.pool.SetMaxIdleConns(cfg.MaxIdleConns)
	d.pool.SetConnMaxLifetime(minutes(cfg.ConnMaxLifetime))
	d.pool.SetConnMaxIdleTime(minutes(cfg.ConnMaxIdleTime))
}

// Pool exposes the underlying *sql.DB for migrations and pool metrics
func (d *Database) Pool() *sql.DB {
	return d.pool
}

// Ping checks that a connection can be made
func (d *Database) Ping(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

// Close closes every pooled connection
func (d *Database) Close() error {
	return d.pool.Close()
}

// ConnectionStats is the pool snapshot reported by /health/detailed
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}

func (d *Database) Stats() ConnectionStats {
	s := d.pool.Stats()
	return ConnectionStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration,
	}
}
