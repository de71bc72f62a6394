package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/adapter/chromedp_crawler"
	"github.com/varon-ai/sitecrawler/internal/adapter/htmlparse"
	"github.com/varon-ai/sitecrawler/internal/adapter/postgres"
	redis_adapter "github.com/varon-ai/sitecrawler/internal/adapter/redis"
	"github.com/varon-ai/sitecrawler/internal/usecase"
	"github.com/varon-ai/sitecrawler/pkg/config"
	"github.com/varon-ai/sitecrawler/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Must("info", "json").Fatal("could not load config", zap.Error(err))
	}

	log := logger.Must(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("Unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		log.Fatal("Unable to prepare database schema", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Unable to connect to Redis", zap.Error(err))
	}

	extractionRepo := postgres.NewExtractionRepo(dbpool)
	jobQueue := redis_adapter.NewJobQueue(rdb)

	sessions := chromedp_crawler.NewSessionManager(
		chromedp_crawler.BrowserConfigFrom(cfg),
		chromedp_crawler.NewFingerprints(cfg.UserAgents, cfg.Proxies),
		log.Named("browser"),
	)
	coordinator := usecase.NewCoordinator(sessions, htmlparse.NewParser(), log.Named("crawl"))
	extractor := usecase.NewExtractionService(
		coordinator,
		extractionRepo,
		postgres.NewFailedPageRepo(dbpool),
		redis_adapter.NewCorpusCache(rdb),
		usecase.ExtractionConfig{
			DefaultBudget: cfg.PageBudget,
			MaxBudget:     cfg.MaxPageBudget,
			CrawlWorkers:  cfg.CrawlWorkers,
			JobTimeout:    cfg.JobTimeout,
			CacheTTL:      cfg.CacheTTL,
		},
		log.Named("extraction"),
	)

	recovery := usecase.NewJobWorker(extractor, extractionRepo, jobQueue, log.Named("worker"))
	if _, err := recovery.Recover(ctx); err != nil {
		log.Error("Could not requeue in-flight jobs", zap.Error(err))
	}

	// Each worker owns at most one browser session at a time.
	var wg sync.WaitGroup
	for i := 0; i < cfg.JobWorkers; i++ {
		worker := usecase.NewJobWorker(extractor, extractionRepo, jobQueue, log.Named("worker").With(zap.Int("worker", i)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx, cfg.JobPollInterval)
		}()
	}
	log.Info("Workers started", zap.Int("count", cfg.JobWorkers))

	<-ctx.Done()
	log.Info("Shutting down workers...")
	wg.Wait()
	log.Info("Workers exited")
}
