package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	"github.com/fooddrop-app/fooddrop-backend/pkg/db"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
	"github.com/fooddrop-app/fooddrop-backend/pkg/migrate"
)

// Usage:
//
//	go run ./cmd/migrate -command up
//	go run ./cmd/migrate -command down
//	go run ./cmd/migrate -command status
func main() {
	_ = godotenv.Load()

	var (
		command = flag.String("command", "up", "goose command: up, up-by-one, down, redo, status, version")
		dir     = flag.String("dir", migrate.DefaultDir, "migrations directory")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "fooddrop-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "open database", err)
		os.Exit(1)
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		logg.Error(ctx, "extract sql.DB", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"command": *command, "dir": *dir})
	if err := migrate.Run(ctx, sqlDB, *dir, cfg.DB.UseSQLite, *command, flag.Args()...); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration complete")
}
