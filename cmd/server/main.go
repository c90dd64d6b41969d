package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"aadhaarqms/internal/booking"
	"aadhaarqms/internal/config"
	"aadhaarqms/internal/handler"
	"aadhaarqms/internal/middleware"
	"aadhaarqms/internal/store"
	"aadhaarqms/pkg/logger"
	"aadhaarqms/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	cfg, err := config.New()
	if err != nil {
		log.Fatalw("config", "error", err)
	}

	var st store.Store
	switch cfg.Store.Backend {
	case "memory":
		log.Warnw("using in-memory store, data will not survive a restart")
		st = store.NewMemory()
	default:
		pool, err := pgxpool.New(context.Background(), cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatalw("db", "error", err)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalw("db ping", "error", err)
		}
		log.Infow("connected to postgres")

		// run migrations
		if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
			log.Warnw("migration file not found, skipping", "error", err)
		} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
			log.Warnw("migration", "error", err)
		} else {
			log.Infow("migration applied")
		}

		st = store.NewPostgres(pool)
	}

	met := metrics.New("aadhaarqms", prometheus.DefaultRegisterer)
	eng := booking.NewEngine(st, log, met, cfg.Cache.Size, cfg.Cache.TTL)
	h := handler.New(eng, st, cfg, log)
	rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: h.Router(rl),
	}
	go func() {
		log.Infow("http server started", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("http", "error", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Infow("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Errorw("shutdown", "error", err)
	}
}
