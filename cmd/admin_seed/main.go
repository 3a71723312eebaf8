// Command admin_seed promotes (or creates) the profile behind an identity
// provider user id to the admin role.
package main

import (
	"context"
	"os"
	"time"

	"cultivate/internal/config"
	"cultivate/internal/logger"
	"cultivate/internal/repositories"
	"cultivate/internal/repositories/cache"
	"cultivate/internal/services/profile"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	logg := logger.New(cfg.Log.Level, cfg.Log.Format)

	externalID := os.Getenv("ADMIN_EXTERNAL_ID")
	fullName := config.GetEnv("ADMIN_NAME", "Administrator")
	email := os.Getenv("ADMIN_EMAIL")
	if externalID == "" {
		logg.Fatal("ADMIN_EXTERNAL_ID must be set in environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logg.WithError(err).Fatal("database unavailable")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	// Profiles are cached by the server, so the seeded role has to evict them.
	var cacheStore cache.Store = cache.Noop{}
	if cfg.Redis.Enabled {
		cacheSvc := cache.NewCacheService(cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.TTL)
		defer cacheSvc.Close()
		if err := cacheSvc.HealthCheck(ctx); err != nil {
			logg.WithError(err).Warn("redis unreachable, cached profile may be stale")
		} else {
			cacheStore = cacheSvc
		}
	}

	profiles := profile.NewService(repositories.NewStore(db).Profiles, cacheStore, logg)
	p, created, err := seedAdmin(ctx, profiles, externalID, fullName, email)
	if err != nil {
		logg.WithError(err).Fatal("failed to seed admin")
	}

	logg.WithFields(logrus.Fields{
		"profile_id":  p.ID,
		"external_id": p.ExternalID,
		"created":     created,
	}).Info("admin profile ready")
}
