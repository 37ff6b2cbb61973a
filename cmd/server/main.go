package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "icbridge/internal/account/handler"
	accountservice "icbridge/internal/account/service"
	accountstore "icbridge/internal/account/store"
	"icbridge/internal/audit"
	"icbridge/internal/platform/config"
	"icbridge/internal/platform/httpserver"
	"icbridge/internal/platform/logger"
	"icbridge/internal/platform/metrics"
	"icbridge/internal/platform/middleware"
	platformredis "icbridge/internal/platform/redis"
	"icbridge/internal/relay"
	relayhandler "icbridge/internal/relay/handler"
	"icbridge/internal/token"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	appMetrics := metrics.New()

	// Account store: Postgres when configured, JSON file otherwise.
	var accStore accountstore.Store
	if cfg.Store.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := accountstore.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		cancel()
		if err != nil {
			log.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		pg := accountstore.NewPostgres(db)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Error("failed to migrate account table", "error", err.Error())
			os.Exit(1)
		}
		accStore = pg
	} else {
		accStore = accountstore.NewFile(cfg.Store.FilePath)
	}
	accounts := accountservice.New(accStore, log, accountservice.WithMetrics(appMetrics))

	// Token broker, optionally wrapped with an expiry-aware cache. A zero
	// cache TTL keeps the original authenticate-every-call behavior.
	var broker token.Broker = token.NewSerproBroker(
		cfg.Provider.AuthURL, cfg.Provider.CertFile, cfg.Provider.KeyFile, log)
	if cfg.Token.CacheTTL > 0 {
		var cache token.Cache = token.NewMemoryCache()
		if redisClient, err := platformredis.New(cfg.Redis); err != nil {
			log.Error("failed to connect to redis", "error", err.Error())
			os.Exit(1)
		} else if redisClient != nil {
			defer redisClient.Close()
			cache = token.NewRedisCache(redisClient.Client)
		}
		broker = token.NewCachingBroker(broker, cache, cfg.Token.CacheTTL, log)
	}

	relayOpts := []relay.Option{
		relay.WithMetrics(appMetrics),
		relay.WithDefaultSystemID(cfg.Provider.SystemID),
	}
	if len(cfg.Audit.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(cfg.Audit.Brokers, cfg.Audit.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaStore.Close()
		relayOpts = append(relayOpts, relay.WithAuditor(audit.NewPublisher(kafkaStore)))
	}

	relayService := relay.New(
		accounts,
		broker,
		relay.NewGatewayRouter(cfg.Provider.GatewayBaseURL, log),
		log,
		relayOpts...,
	)

	var verifier middleware.SecretVerifier
	if cfg.Server.AccessSecret != "" {
		verifier = middleware.StaticSecret{Secret: cfg.Server.AccessSecret}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ContentTypeJSON)
	router.Handle("/metrics", promhttp.Handler())

	relayhandler.New(relayService, log, verifier).Register(router)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSecret(verifier, log))
		accounthandler.New(accounts, log).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting icbridge", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
