package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentinel-automod/internal/analytics"
	"sentinel-automod/internal/automod"
	"sentinel-automod/internal/bot"
	"sentinel-automod/internal/config"
	"sentinel-automod/internal/lockdown"
	"sentinel-automod/internal/modules/audit"
	"sentinel-automod/internal/storage"
	"sentinel-automod/internal/storage/redisstore"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	if err := store.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	var redisClient *goredis.Client
	var stats automod.StatsStore
	if cfg.RedisURL != "" {
		redisClient, err = redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis init failed", zap.Error(err))
		}
		stats = redisstore.NewStatsStore(redisClient)
		logger.Info("automod stats stored in redis")
	}

	auditLogger := audit.NewLogger(store, logger)
	lockdownEngine := lockdown.New(lockdown.Config{AutoExpiry: cfg.AntiRaid.LockdownExpiry()}, logger)

	botSvc, err := bot.New(cfg, logger, bot.Deps{
		Store:     store,
		Stats:     stats,
		Audit:     auditLogger,
		Lockdown:  lockdownEngine,
		Analytics: analytics.New(store),
	})
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	var server *http.Server
	if cfg.Health.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		server = &http.Server{Addr: cfg.Health.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shutdownErr error
	if server != nil {
		shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	}
	shutdownErr = multierr.Append(shutdownErr, botSvc.Close(shutdownCtx))
	lockdownEngine.Close()
	if redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	}
	shutdownErr = multierr.Append(shutdownErr, store.Close())
	if shutdownErr != nil {
		logger.Warn("shutdown completed with errors", zap.Errors("errors", multierr.Errors(shutdownErr)))
		return
	}
	logger.Info("shutdown complete")
}
