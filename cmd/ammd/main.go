package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/solanaforge/amm-engine/internal/cache"
	"github.com/solanaforge/amm-engine/internal/config"
	"github.com/solanaforge/amm-engine/internal/ledger"
	"github.com/solanaforge/amm-engine/internal/pool"
	"github.com/solanaforge/amm-engine/internal/poolstore"
	"github.com/solanaforge/amm-engine/internal/server"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the AMM engine service
// It wires the pool store, ledger, and controller and starts the HTTP
// server with graceful shutdown
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Redis backs both the pool record store and the event feed
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	poolStore, err := poolstore.NewRedisStore(rclient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create pool store")
	}

	swapCache := cache.NewRedisCacheFromClient(rclient, logger)

	// Standalone mode holds balances in process; a deployment against
	// real custody swaps this for its own Custody implementation.
	custody := ledger.NewMemoryLedger()

	controller := pool.NewController(poolStore, custody, pool.AllowAll{}, logger).
		WithEventSink(swapCache)

	handlers := &server.Handlers{
		Controller: controller,
		Pools:      poolStore,
		Cache:      swapCache,
		Custody:    custody,
		DevMode:    cfg.DevMode,
		Logger:     logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: handlers,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}

	go func() {
		logger.Infof("amm engine listening on %s", cfg.APIAddr)
		if err := srv.Start(); err != nil {
			logger.WithError(err).Info("server stopped")
		}
	}()

	<-sigCh
	logger.Info("shutting down")

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
	if err := swapCache.Close(); err != nil {
		logger.WithError(err).Error("redis close failed")
	}
}
