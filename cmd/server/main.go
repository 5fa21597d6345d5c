package main

import (
	"context"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/cache"
	"github.com/oggyb/linkup/internal/config"
	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/logger"
	"github.com/oggyb/linkup/internal/server"
	"github.com/oggyb/linkup/internal/service/discover"
	"github.com/oggyb/linkup/internal/service/events"
	"github.com/oggyb/linkup/internal/service/friends"
	"github.com/oggyb/linkup/internal/service/match"
	"github.com/oggyb/linkup/internal/service/users"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	registrars := []server.Registrar{
		users.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		friends.NewRegistrar(appCtx),
		discover.NewRegistrar(appCtx),
		events.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	log.Info("starting HTTP server", "port", cfg.App.Port)

	if err := server.StartHTTPServer(cfg, appCtx, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
