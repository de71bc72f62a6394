package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/adapter/chromedp_crawler"
	"github.com/varon-ai/sitecrawler/internal/adapter/htmlparse"
	"github.com/varon-ai/sitecrawler/internal/adapter/postgres"
	redis_adapter "github.com/varon-ai/sitecrawler/internal/adapter/redis"
	"github.com/varon-ai/sitecrawler/internal/delivery/http/handler"
	"github.com/varon-ai/sitecrawler/internal/delivery/http/router"
	"github.com/varon-ai/sitecrawler/internal/usecase"
	"github.com/varon-ai/sitecrawler/pkg/config"
	"github.com/varon-ai/sitecrawler/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.Must("info", "json").Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log := logger.Must(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()
	log.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("Unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		log.Fatal("Unable to prepare database schema", zap.Error(err))
	}
	log.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Unable to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connection established")

	// --- Repositories ---
	extractionRepo := postgres.NewExtractionRepo(dbpool)
	failedPageRepo := postgres.NewFailedPageRepo(dbpool)
	corpusCache := redis_adapter.NewCorpusCache(rdb)
	jobQueue := redis_adapter.NewJobQueue(rdb)

	// --- Browser ---
	sessions := chromedp_crawler.NewSessionManager(
		chromedp_crawler.BrowserConfigFrom(cfg),
		chromedp_crawler.NewFingerprints(cfg.UserAgents, cfg.Proxies),
		log.Named("browser"),
	)

	// --- Use Cases ---
	coordinator := usecase.NewCoordinator(sessions, htmlparse.NewParser(), log.Named("crawl"))
	extractor := usecase.NewExtractionService(coordinator, extractionRepo, failedPageRepo, corpusCache, usecase.ExtractionConfig{
		DefaultBudget: cfg.PageBudget,
		MaxBudget:     cfg.MaxPageBudget,
		CrawlWorkers:  cfg.CrawlWorkers,
		JobTimeout:    cfg.JobTimeout,
		CacheTTL:      cfg.CacheTTL,
	}, log.Named("extraction"))
	jobs := usecase.NewJobManager(extractor.Limits(), extractionRepo, jobQueue, log.Named("jobs"))

	// --- HTTP Server ---
	checks := map[string]handler.HealthCheck{
		"postgres": dbpool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	apiHandler := handler.NewHandler(extractor, jobs, checks, log.Named("http"))
	requestTimeout := cfg.JobTimeout + 30*time.Second
	httpRouter := router.New(apiHandler, log.Named("http"), requestTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exiting")
}
