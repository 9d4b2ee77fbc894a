package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/noah-isme/mustang-stride-api/internal/offline"
	"github.com/noah-isme/mustang-stride-api/internal/repository"
	"github.com/noah-isme/mustang-stride-api/internal/service"
	"github.com/noah-isme/mustang-stride-api/pkg/cache"
	"github.com/noah-isme/mustang-stride-api/pkg/config"
	"github.com/noah-isme/mustang-stride-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var entries offline.EntryStore
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching in memory only", "error", err)
		entries = offline.NewMemoryStore()
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		entries = offline.NewRedisStore(repo)
	}

	metricsSvc := service.NewMetricsService()

	gateway, err := offline.NewGateway(cfg.Offline, entries, logr, metricsSvc)
	if err != nil {
		logr.Sugar().Fatalw("failed to build gateway", "error", err)
	}

	// A partial bootstrap cache is worse than none: fail activation
	// outright when any asset cannot be fetched.
	if err := gateway.Install(ctx); err != nil {
		logr.Sugar().Fatalw("install failed", "generation", cfg.Offline.Generation, "error", err)
	}
	if err := gateway.Activate(ctx); err != nil {
		logr.Sugar().Fatalw("activate failed", "generation", cfg.Offline.Generation, "error", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsSvc.Handler())
	mux.Handle("/", gateway)

	addr := fmt.Sprintf(":%d", cfg.Offline.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logr.Sugar().Infow("offline gateway starting",
			"addr", addr,
			"upstream", cfg.Offline.Upstream,
			"generation", cfg.Offline.Generation,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("gateway failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("gateway shutdown failed", "error", err)
	}
}
