package main

import (
	"flag"
	"fmt"
	"os"

	"sport-shop/internal/config"
	"sport-shop/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate <up|down|version>\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "DATABASE_URL overrides the DB_* variables.\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one command")
	}

	logger := config.NewLogger(config.LoadLogger())

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		dbCfg := config.LoadDatabase()
		if err := dbCfg.Validate(); err != nil {
			return fmt.Errorf("invalid database configuration: %w", err)
		}
		databaseURL = dbCfg.ConnectionString()
	}

	mg, err := database.NewMigrator(databaseURL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close migrator")
		}
	}()

	switch command := flag.Arg(0); command {
	case "up":
		return mg.Up()

	case "down":
		return mg.Down()

	case "version":
		version, dirty, ok, err := mg.Version()
		if err != nil {
			return err
		}
		if !ok {
			logger.Info().Msg("no migrations applied yet")
			return nil
		}
		logger.Info().
			Uint("version", version).
			Bool("dirty", dirty).
			Msg("current migration version")
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
