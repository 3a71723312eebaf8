// Package main is the entry point for the cultivate API server.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"cultivate/internal/config"
	"cultivate/internal/events"
	"cultivate/internal/handlers"
	"cultivate/internal/logger"
	"cultivate/internal/middleware"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/cache"
	"cultivate/internal/routes"
	"cultivate/internal/services/advisor"
	"cultivate/internal/services/campaign"
	"cultivate/internal/services/investment"
	"cultivate/internal/services/ledger"
	"cultivate/internal/services/notification"
	"cultivate/internal/services/payment"
	"cultivate/internal/services/payout"
	"cultivate/internal/services/profile"
	"cultivate/internal/services/revenue"
	"cultivate/internal/services/webhook"
	"cultivate/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logg := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logg.WithError(err).Fatal("database unavailable")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logg.WithError(err).Warn("failed to close database connection")
			}
		}
	}()
	logg.Info("connected to database")
	store := repositories.NewStore(db)

	var (
		cacheStore  cache.Store = cache.Noop{}
		cachePinger handlers.Pinger
	)
	if cfg.Redis.Enabled {
		cacheSvc := cache.NewCacheService(cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.TTL)
		defer cacheSvc.Close()

		if err := cacheSvc.HealthCheck(ctx); err != nil {
			logg.WithError(err).Warn("redis unreachable, caching disabled")
		} else {
			cacheStore = cacheSvc
			logg.Info("connected to redis")
		}
		cachePinger = cacheSvc
	}

	var objects storage.ObjectStore = storage.Disabled{}
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			logg.WithError(err).Warn("object storage unavailable, thumbnail uploads disabled")
		} else {
			objects = s3Store
		}
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logg)
		if err != nil {
			logg.WithError(err).Warn("message broker unavailable, events will be dropped")
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	var chat advisor.ChatCompleter = advisor.Unconfigured{}
	if cfg.OpenAI.APIKey != "" {
		chat = advisor.NewOpenAIClient(cfg.OpenAI)
	} else {
		logg.Warn("OPENAI_API_KEY not set, AI endpoints will fail")
	}

	profileService := profile.NewService(store.Profiles, cacheStore, logg)
	campaignService := campaign.NewService(store.Campaigns, cacheStore, objects, logg)
	investmentService := investment.NewService(store, logg)
	paymentService := payment.NewService(store, publisher, logg)
	ledgerService := ledger.NewService(store.Transactions, logg)
	revenueService := revenue.NewService(store.Revenues, logg)
	payoutService := payout.NewService(store, publisher, logg)
	notificationService := notification.NewService(store.Notifications, publisher, logg)
	advisorService := advisor.NewService(chat, campaignService, revenueService, store.Recommendations, store.AIContents, logg)
	webhookService := webhook.NewService(cfg.Webhooks, store.WebhookEvents, paymentService, revenueService, logg)

	auth, err := middleware.NewAuthMiddleware(cfg.Auth, profileService, logg)
	if err != nil {
		logg.WithError(err).Fatal("auth misconfigured")
	}

	app := fiber.New(fiber.Config{
		AppName:   "cultivate",
		BodyLimit: 12 << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Health:        handlers.NewHealthHandler(db, cachePinger),
		Profiles:      handlers.NewProfileHandler(profileService, logg),
		Campaigns:     handlers.NewCampaignHandler(campaignService, investmentService, ledgerService, revenueService, logg),
		Investments:   handlers.NewInvestmentHandler(investmentService, logg),
		Payments:      handlers.NewPaymentHandler(paymentService, logg),
		Transactions:  handlers.NewTransactionHandler(ledgerService, logg),
		Revenues:      handlers.NewRevenueHandler(revenueService, logg),
		Payouts:       handlers.NewPayoutHandler(payoutService, logg),
		Notifications: handlers.NewNotificationHandler(notificationService, logg),
		AI:            handlers.NewAIHandler(advisorService, logg),
		Webhooks:      handlers.NewWebhookHandler(webhookService, logg),
	}, auth, routes.Limits{
		Webhooks: cfg.RateLimit.Webhooks,
		AI:       cfg.RateLimit.AI,
	})

	go func() {
		<-ctx.Done()
		logg.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logg.WithError(err).Error("shutdown failed")
		}
	}()

	logg.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env}).Info("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logg.WithError(err).Error("server stopped")
	}
}
