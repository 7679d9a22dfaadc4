// Command migrate applies or inspects the document collections.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"artlink/internal/config"
	"artlink/internal/database"

	"gorm.io/gorm"
)

type command func(ctx context.Context, cfg *config.Config, db *gorm.DB) error

var commands = map[string]command{
	"up":     up,
	"status": status,
	"reset":  reset,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return errors.New("usage: go run ./cmd/migrate <up|status|reset>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(flag.Arg(0)))]
	if !ok {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	return cmd(context.Background(), cfg, db)
}

func up(_ context.Context, _ *config.Config, db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Println("collections migrated")
	return nil
}

func status(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	existing, err := database.ListCollections(ctx, db)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	pending, err := database.PendingCollections(ctx, db)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	log.Printf("env=%s driver=%s existing=%d pending=%d", cfg.Env, db.Dialector.Name(), len(existing), len(pending))
	for _, name := range pending {
		log.Printf("pending: %s", name)
	}
	return nil
}

func reset(_ context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		return errors.New("reset is disabled in production")
	}
	if err := database.DropCollections(db); err != nil {
		return err
	}
	log.Println("collections dropped")
	return up(context.Background(), cfg, db)
}
