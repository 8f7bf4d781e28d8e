// Package postgres opens the PostgreSQL catalog database
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Pool defaults used when the configuration leaves them at zero
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultSlowQuery       = 200 * time.Millisecond
)

// Open connects to the primary at dsn through pgx and registers the
// configured read replicas with dbresolver.
func Open(ctx context.Context, cfg config.DatabaseConfig, dsn string, log *zap.Logger) (*gorm.DB, error) {
	log = log.Named("postgres")

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*connConfig)
	configurePool(sqlDB, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 NewGormLogger(cfg, log),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, len(cfg.Replicas))
		for i, replica := range cfg.Replicas {
			replicas[i] = postgres.Open(replica)
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(maxOpen(cfg)).
			SetMaxIdleConns(maxIdle(cfg)))
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}
		log.Info("Read replicas configured", zap.Int("replica_count", len(cfg.Replicas)))
	}

	log.Info("Database connection initialized",
		zap.String("host", connConfig.Host),
		zap.String("database", connConfig.Database),
		zap.Int("max_open_conns", maxOpen(cfg)),
	)
	return db, nil
}

func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	idleTime := cfg.ConnMaxIdleTime
	if idleTime <= 0 {
		idleTime = defaultConnMaxIdleTime
	}
	db.SetMaxOpenConns(maxOpen(cfg))
	db.SetMaxIdleConns(maxIdle(cfg))
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(idleTime)
}

func maxOpen(cfg config.DatabaseConfig) int {
	if cfg.MaxOpenConns > 0 {
		return cfg.MaxOpenConns
	}
	return defaultMaxOpenConns
}

func maxIdle(cfg config.DatabaseConfig) int {
	if cfg.MaxIdleConns > 0 {
		return cfg.MaxIdleConns
	}
	return defaultMaxIdleConns
}

// NewGormLogger routes GORM's log output to zap
func NewGormLogger(cfg config.DatabaseConfig, log *zap.Logger) logger.Interface {
	slow := cfg.SlowQueryThreshold
	if slow <= 0 {
		slow = defaultSlowQuery
	}
	return logger.New(&GormLogWriter{logger: log}, logger.Config{
		SlowThreshold:             slow,
		LogLevel:                  GormLogLevel(cfg.LogLevel),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// GormLogLevel maps an application log level to the GORM level one step quieter
func GormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "info", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// GormLogWriter implements GORM's Writer interface on top of zap
type GormLogWriter struct {
	logger *zap.Logger
}

// Printf implements the Writer interface
func (w *GormLogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	case strings.Contains(msg, "error"):
		w.logger.Error("GORM error", zap.String("message", msg))
	default:
		w.logger.Debug("GORM", zap.String("message", msg))
	}
}
