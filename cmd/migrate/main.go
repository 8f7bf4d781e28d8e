// Package main applies or rolls back the PostgreSQL schema
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/migrations"
	"github.com/mealprep/pantrymatch/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("PANTRYMATCH_CONFIG"), "Configuration file path")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config path] up|down|version\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*configPath, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, command string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations only apply to postgres, database.driver is %q", cfg.Database.Driver)
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	connConfig, err := pgx.ParseConfig(cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to parse dsn: %w", err)
	}
	db := stdlib.OpenDB(*connConfig)

	m, err := migrations.New(db, connConfig.Database, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
