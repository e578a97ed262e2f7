package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/thuso-software/veriface/internal/config"
	"github.com/thuso-software/veriface/internal/database"
	"github.com/thuso-software/veriface/internal/importer"
	"github.com/thuso-software/veriface/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "", "Path to the profiles CSV file")
	flag.Parse()

	if *file == "" {
		return fmt.Errorf("file flag is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open %s: %w", *file, err)
	}
	defer func() { _ = f.Close() }()

	profiles, err := importer.ParseProfiles(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", *file, err)
	}

	logger.Info("parsed profiles", slog.Int("count", len(profiles)))

	ctx := context.Background()
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	imp := importer.New(repository.NewProfileRepository(pool), logger)
	n, err := imp.Run(ctx, profiles)
	if err != nil {
		return fmt.Errorf("import stopped after %d rows: %w", n, err)
	}

	logger.Info("import completed", slog.Int("imported", n))
	return nil
}
