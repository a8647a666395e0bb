package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"sport-shop/internal/catalog"
	"sport-shop/internal/config"
	"sport-shop/internal/database"
	"sport-shop/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	catalogCfg := config.LoadCatalog()
	s3Cfg := config.LoadS3()

	dir := flag.String("dir", catalogCfg.Dir, "local directory holding catalogue files")
	files := flag.String("files", strings.Join(catalogCfg.Files, ","), "comma-separated catalogue file names")
	migrate := flag.Bool("migrate", true, "apply pending migrations before importing")
	flag.Parse()

	logger := config.NewLogger(config.LoadLogger())

	dbCfg := config.LoadDatabase()
	if err := dbCfg.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	var names []string
	for _, name := range strings.Split(*files, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrate {
		if err := database.Migrate(dbCfg.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, dbCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	loader := catalog.NewFileLoader(*dir, logger)
	if s3Cfg.Enabled && s3Cfg.Bucket != "" {
		s3Loader, err := catalog.NewS3Loader(ctx, s3Cfg.Bucket, s3Cfg.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local file system only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, loader, s3Cfg.Prefix, logger)
		}
	} else {
		logger.Info().Str("dir", *dir).Msg("using local file system for catalogue files (S3 disabled)")
	}

	importer := catalog.NewImporter(loader, repository.NewProductRepository(pool, logger), logger)
	n, err := importer.Import(ctx, names)
	if err != nil {
		return fmt.Errorf("catalogue import failed: %w", err)
	}

	logger.Info().Int("products", n).Msg("seed completed")
	return nil
}
