package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/zapastore/storefront/internal/api"
	"github.com/zapastore/storefront/internal/core/service"
	"github.com/zapastore/storefront/internal/infrastructure/config"
	mongostore "github.com/zapastore/storefront/internal/infrastructure/db/mongo"
	redisstore "github.com/zapastore/storefront/internal/infrastructure/db/redis"
	"github.com/zapastore/storefront/internal/infrastructure/queue"
	"github.com/zapastore/storefront/pkg/logger"
)

// @title        Storefront API
// @version      1.0
// @description  Catalog and cart service for the shoe storefront.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "storefront",
		Pretty:  cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Catalog store ---
	productRepo := mongostore.NewProductRepository(db)
	catalog := service.NewCatalogStore(productRepo, log)
	if err := catalog.Load(ctx); err != nil {
		// Serve anyway; /products reports the catalog unavailable until a
		// later reload succeeds.
		log.Warn().Err(err).Msg("initial catalog load failed")
	}
	go reloadLoop(ctx, catalog, cfg.CatalogReload, log)

	// --- Activity pipeline ---
	activityRepo := mongostore.NewActivityRepository(db)
	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(cfg, db, rdb, catalog, productRepo, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront API listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// reloadLoop refreshes the catalog snapshot on a fixed interval. A failed
// reload keeps the previous snapshot; the next tick tries again.
func reloadLoop(ctx context.Context, catalog *service.CatalogStore, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := catalog.Load(ctx); err != nil {
				log.Warn().Err(err).Msg("catalog reload failed")
			}
		}
	}
}
