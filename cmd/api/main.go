package main

import (
	"context"
	"log"
	"time"

	"socialdesk/config"
	"socialdesk/internal/handler"
	"socialdesk/internal/media"
	"socialdesk/internal/notify"
	"socialdesk/internal/redis"
	"socialdesk/internal/repository"
	"socialdesk/internal/server"
	"socialdesk/internal/services"
	"socialdesk/internal/storage"
	"socialdesk/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx := context.Background()
	timeout := time.Duration(cfg.OutboundTimeoutSec) * time.Second

	provider, err := storage.NewProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up media provider: %v", err)
	}
	mediaHandler := media.NewHandler(provider, int64(cfg.MaxUploadMB)<<20, timeout, l)

	collections, closeDB, err := repository.Open(ctx, cfg, mediaHandler, l)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := collections.Migrate(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	deps := services.Deps{
		Config:      cfg,
		Collections: collections,
		Media:       mediaHandler,
		Logger:      l,
	}
	limiters := server.Limiters{}
	checks := []server.HealthCheck{{Name: "database", Check: collections.Ping}}

	if cfg.RedisEnabled() {
		rdb, err := redis.NewClient(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()

		cache := redis.NewCountsCache(rdb, 30*time.Second)
		deps.Cache = cache
		limiter := redis.NewRateLimiter(rdb, redis.RateLimitConfig{
			SubmitLimit:  cfg.SubmitRateLimit,
			SubmitWindow: time.Duration(cfg.RateLimitWindowSec) * time.Second,
			AuthLimit:    cfg.AuthRateLimit,
			AuthWindow:   time.Duration(cfg.RateLimitWindowSec) * time.Second,
		})
		limiters.Submit = limiter.Submissions()
		limiters.Auth = limiter.Auth()
		checks = append(checks, server.HealthCheck{Name: "redis", Check: cache.Ping})
	} else {
		l.Warnf("REDIS_HOST not set: rate limiting and the counts cache are disabled")
	}

	svc := services.New(deps)

	created, err := svc.Auth.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword, cfg.BootstrapAdminName)
	if err != nil {
		log.Fatalf("Failed to ensure bootstrap admin: %v", err)
	}
	if created {
		l.Infof("Bootstrap admin %s created", cfg.BootstrapAdminEmail)
	} else {
		l.Infof("Bootstrap admin %s already exists", cfg.BootstrapAdminEmail)
	}

	sender, senderCloser, err := notify.NewSender(cfg, l)
	if err != nil {
		log.Fatalf("Failed to set up notifications: %v", err)
	}
	dispatcher := notify.NewDispatcher(sender, cfg.NotifyAdminEmail, timeout, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(handler.New(svc, dispatcher), svc.Auth, limiters, checks...)
	srv.OnShutdown(dispatcher.Close)
	srv.OnShutdown(func(context.Context) error { return senderCloser.Close() })
	srv.OnShutdown(closeDB)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
