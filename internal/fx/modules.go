package fx

import (
	"ow2stats/internal/api"
	"ow2stats/internal/config"
	"ow2stats/internal/database"
	"ow2stats/internal/logger"
	"ow2stats/internal/repository"
	"ow2stats/internal/server"
	"ow2stats/internal/service"
	"ow2stats/internal/sweep"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var ScraperModule = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Invoke(func(cfg *config.Config, l zerolog.Logger) {
		logger.ApplyLevel(cfg.Level(), l)
	}),
	// api clients
	fx.Provide(api.NewStatsClient),
	fx.Provide(api.NewBackendClient),
	// svc
	fx.Provide(service.NewStatsService),
	fx.Provide(sweep.NewDriver),
)

var ServerModule = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.LoadServer),
	fx.Invoke(func(cfg *config.ServerConfig, l zerolog.Logger) {
		logger.ApplyLevel(cfg.Level(), l)
	}),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewHeroStatsRepository),
	// server
	fx.Provide(server.NewHeroServer),
)
