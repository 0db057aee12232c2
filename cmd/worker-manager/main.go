// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"creator-match-workers/internal/common/camunda"
	"creator-match-workers/internal/common/config"
	"creator-match-workers/internal/common/database"
	"creator-match-workers/internal/common/logger"
	"creator-match-workers/internal/common/observability"
	"creator-match-workers/internal/common/validation"
	"creator-match-workers/internal/matching"
	"creator-match-workers/internal/store/cache"
	"creator-match-workers/internal/store/postgres"
	"creator-match-workers/internal/store/search"
	"creator-match-workers/pkg/registry"

	rcm "creator-match-workers/internal/workers/matching/rank-creator-matches"
	scm "creator-match-workers/internal/workers/matching/score-creator-match"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	}, log)
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Backing stores ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}

	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()

	log.Info("backing stores connected", nil)

	// --- Matching engine ---
	pgStore := postgres.NewStore(pg.DB)
	sources := matching.Sources{
		Brands:      pgStore,
		Preferences: pgStore,
		Campaigns:   pgStore,
		Creators: search.NewCreatorDirectory(esClient.Client, search.Config{
			Index:     cfg.Matching.CreatorIndex,
			PageSize:  cfg.Matching.ScrollPageSize,
			KeepAlive: config.GetDuration(cfg.Matching.ScrollKeepaliveMs),
		}),
		Metrics: pgStore,
	}
	if cfg.Matching.CacheTTLMs > 0 {
		brandCache := cache.NewBrandCache(redisClient.Client, pgStore, pgStore,
			config.GetDuration(cfg.Matching.CacheTTLMs), log)
		sources.Brands = brandCache
		sources.Preferences = brandCache
	}

	ranker := matching.NewRanker(sources, matching.NewEvaluator(), matching.Config{
		Parallelism:      cfg.Matching.Parallelism,
		MetricsBatchSize: cfg.Matching.MetricsBatchSize,
	}, log)

	reg, err := registry.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("activity registry schemas invalid", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()

	var workers []*camunda.Worker

	rankCfg := config.GetWorkerConfig(cfg, rcm.TaskType)
	rankHandler := rcm.NewHandler(&rcm.Config{
		Timeout:    config.GetDuration(rankCfg.Timeout),
		MaxResults: cfg.Matching.MaxResults,
	}, ranker, validator, obs, log)
	if w := camunda.StartWorker(zeebe.GetClient(), rcm.TaskType, rankCfg, rankHandler, log); w != nil {
		workers = append(workers, w)
	}

	scoreCfg := config.GetWorkerConfig(cfg, scm.TaskType)
	scoreHandler := scm.NewHandler(&scm.Config{
		Timeout: config.GetDuration(scoreCfg.Timeout),
	}, ranker, validator, obs, log)
	if w := camunda.StartWorker(zeebe.GetClient(), scm.TaskType, scoreCfg, scoreHandler, log); w != nil {
		workers = append(workers, w)
	}

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	deps := map[string]database.Pinger{
		"postgres":      pg,
		"elasticsearch": esClient,
		"redis":         redisClient,
		"zeebe":         zeebe,
	}
	http.HandleFunc("/health", healthHandler(deps))
	http.HandleFunc("/ready", readyHandler(workers))
	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.HTTPAddress,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped gracefully", nil)
}
