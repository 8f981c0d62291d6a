package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List pending migrations and exit")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DSN()
	}
	if *dir == "" {
		*dir = cfg.MigrationsDir
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	m := database.NewMigrator(db, *dir, log)

	switch {
	case *status:
		pending, err := m.Pending(ctx)
		if err != nil {
			log.Fatal("failed to list migrations", "error", err)
		}
		for _, name := range pending {
			fmt.Println(name)
		}
	case *rollback:
		name, err := m.Rollback(ctx)
		if err != nil {
			log.Fatal("rollback failed", "error", err)
		}
		if name == "" {
			log.Info("no migrations to roll back")
			return
		}
		log.Info("rolled back migration", "name", name)
	default:
		applied, err := m.Up(ctx)
		if err != nil {
			log.Fatal("migration failed", "error", err)
		}
		log.Info("migrations applied", "count", len(applied))
	}
}
