package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp/backoffice/internal/infrastructure/config"
	applogger "github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// Option customizes how the connection is opened
type Option func(*options)

type options struct {
	logLevel gormlogger.LogLevel
	tracing  telemetry.GormTracingConfig
}

// WithLogLevel sets the GORM log level. Statements are logged through zap.
func WithLogLevel(level gormlogger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// WithTracing registers statement tracing on the connection
func WithTracing(cfg telemetry.GormTracingConfig) Option {
	return func(o *options) {
		o.tracing = cfg
	}
}

// NewDatabase opens the connection pool and pings it, retrying with
// exponential backoff until cfg.ConnectTimeout elapses or ctx is done.
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger, opts ...Option) (*Database, error) {
	o := options{logLevel: gormlogger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = cfg.ConnectTimeout

	var db *gorm.DB
	connect := func() error {
		conn, err := open(cfg, logger, o.logLevel)
		if err != nil {
			return err
		}
		db = conn
		return nil
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("database not reachable, retrying",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.Duration("next_attempt_in", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(connect, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := telemetry.InstrumentGorm(db, o.tracing, logger); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to instrument database: %w", err)
	}

	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &Database{DB: db}, nil
}

func open(cfg *config.DatabaseConfig, logger *zap.Logger, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 applogger.NewGormLogger(logger, level, cfg.SlowQuery),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func closeQuietly(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}

// Stats returns connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}
