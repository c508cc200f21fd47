package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"statusboard/internal/config"
	"statusboard/internal/infrastructure/repository"
	"statusboard/internal/middleware"
	"statusboard/internal/notifier"
	"statusboard/internal/store"
	handlers "statusboard/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Failed to load timezone %q: %v", cfg.Timezone, err)
	}

	var snap repository.Snapshot
	var limiter *middleware.RateLimiter

	switch cfg.StorageBackend {
	case "", "file":
		snap, err = repository.NewFileSnapshot(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data dir: %v", err)
		}
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis at", cfg.RedisAddr)
		snap = repository.NewRedisSnapshot(rdb)
		limiter = middleware.NewRateLimiter(rdb)
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		snap, err = repository.NewPostgresSnapshot(db)
		if err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
	default:
		log.Fatalf("Unknown storage backend %q", cfg.StorageBackend)
	}

	devices := store.NewDeviceStore(snap, loc, cfg.DeviceTimeout)
	presence := store.NewPresenceTracker(snap, cfg.OnlineTimeout)
	events := notifier.New()

	h := handlers.NewHandler(devices, presence, events, cfg, loc)
	router := handlers.NewRouter(h, limiter)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	log.Printf("Status board running on %s", cfg.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Println("Shutting down server...")

	// Open event streams never finish on their own; give them the shutdown
	// window and then exit.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
