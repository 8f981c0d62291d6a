package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = database.RunMigrations(migrateCtx, db, cfg.MigrationsDir, log)
	cancel()
	if err != nil {
		log.Fatal("migrations failed", "error", err)
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = database.NewRedisClient(cfg, log)
		if err != nil {
			// rate limiting is optional
			log.Warn("redis unavailable, rate limiting disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	images, err := server.NewImageStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("image storage setup failed", "error", err)
	}

	srv := server.New(cfg, server.Deps{DB: db, Redis: rdb, Images: images, Log: log})
	if err := srv.Start(ctx); err != nil {
		log.Fatal("server error", "error", err)
	}
	log.Info("server stopped")
}
