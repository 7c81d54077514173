package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/config"
	"github.com/scgursel/kakule-katalog/internal/db"
	dbRedis "github.com/scgursel/kakule-katalog/internal/db/redis"
	logpkg "github.com/scgursel/kakule-katalog/internal/logger"
	"github.com/scgursel/kakule-katalog/internal/metrics"
	"github.com/scgursel/kakule-katalog/internal/repository/fallback"
	"github.com/scgursel/kakule-katalog/internal/repository/pgproduct"
	productrepo "github.com/scgursel/kakule-katalog/internal/repository/product"
	"github.com/scgursel/kakule-katalog/internal/repository/productcache"
	"github.com/scgursel/kakule-katalog/internal/repository/sample"
	chiTransport "github.com/scgursel/kakule-katalog/internal/transport/chi"
	cataloguc "github.com/scgursel/kakule-katalog/internal/usecase/catalog"
	healthuc "github.com/scgursel/kakule-katalog/internal/usecase/health"
	searchuc "github.com/scgursel/kakule-katalog/internal/usecase/search"
	"github.com/scgursel/kakule-katalog/internal/version"
)

// productSource is what every catalog backend offers the composition root.
type productSource interface {
	cataloguc.Repository
	healthuc.Pinger
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kakule catalog API",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("source", cfg.Catalog.Source),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	// Redis backs the redis source and the product list cache.
	var store db.Store
	if cfg.Catalog.Source == config.SourceRedis || cfg.CacheEnabled() {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer s.Close()

		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to redis")
		store = s
	}

	var source productSource
	switch cfg.Catalog.Source {
	case config.SourceRedis:
		source = productrepo.New(store, cfg.Catalog.KeyPrefix)
	case config.SourcePostgres:
		pool, err := pgproduct.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		repo := pgproduct.New(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to prepare postgres schema", zap.Error(err))
		}
		logger.Info("Connected to postgres")
		source = repo
	default:
		source = sample.New()
	}

	// Register search and cache metrics explicitly (no init())
	metrics.Register()

	// Build the repository chain: source -> cache -> fallback. Fallback wraps
	// the cache so sample data never lands in it.
	var repo cataloguc.Repository = source
	var cache *productcache.Cache
	if store != nil && cfg.CacheEnabled() {
		cache = productcache.New(source, store, cfg.Catalog.KeyPrefix,
			time.Duration(cfg.Catalog.CacheTTLSec)*time.Second, metrics.CatalogCacheTotal, logger)
		repo = cache
	}
	fallbackOn := cfg.Catalog.Fallback() && cfg.Catalog.Source != config.SourceSample
	if fallbackOn {
		repo = fallback.New(repo, sample.New(), metrics.CatalogFallbackTotal, logger)
	}

	// Pass nil interfaces (not typed nil pointers) when the cache is off.
	var invalidator cataloguc.CacheInvalidator
	var cachePinger healthuc.Pinger
	if cache != nil {
		invalidator = cache
		cachePinger = store
	}

	engine := searchuc.NewEngine(
		searchuc.WithSynonyms(&cfg.Search.Synonyms),
		searchuc.WithSuggestionLimit(cfg.Search.SuggestionLimit),
	)
	logger.Info("Search engine ready", zap.Int("synonym_terms", cfg.Search.Synonyms.Len()))

	catalogSvc := cataloguc.New(repo, invalidator)
	searchSvc := searchuc.New(repo, engine, searchuc.WithPopularLimit(cfg.Search.PopularLimit))
	healthSvc := healthuc.New(source, cachePinger, fallbackOn)

	server := chiTransport.NewServer(catalogSvc, searchSvc, healthSvc, chiTransport.Limits{
		Default: cfg.Search.DefaultLimit,
		Max:     cfg.Search.MaxLimit,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
