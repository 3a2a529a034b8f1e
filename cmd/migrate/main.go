package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/marealta/backend/internal/infrastructure/config"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/migration"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "path to the migrations directory")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("failed to resolve migrations path", zap.Error(err))
	}
	sourceURL := "file://" + absPath
	databaseURL := cfg.Database.URL()

	switch command {
	case "up":
		if err := migration.Up(sourceURL, databaseURL); err != nil {
			log.Fatal("migration up failed", zap.Error(err))
		}
		log.Info("migrations applied")

	case "down":
		if err := migration.Down(sourceURL, databaseURL); err != nil {
			log.Fatal("migration down failed", zap.Error(err))
		}
		log.Info("last migration rolled back")

	case "version":
		version, dirty, err := migration.Version(sourceURL, databaseURL)
		if err != nil {
			log.Fatal("failed to read version", zap.Error(err))
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}

	default:
		log.Error("unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Database migration tool

Usage:
  migrate [flags] <command>

Commands:
  up        Apply all pending migrations
  down      Roll back the most recent migration
  version   Show current schema version

Flags:
  -path string   Path to migrations directory (default: ./migrations)`)
}
