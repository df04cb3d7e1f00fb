package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ow2stats/internal/api"
	"ow2stats/internal/domain"
	"ow2stats/internal/maps"

	"github.com/rs/zerolog"
)

type StatsService struct {
	stats  *api.StatsClient
	logger zerolog.Logger
}

func NewStatsService(stats *api.StatsClient, logger zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, logger: logger}
}

// FetchPage returns the upload records for one configuration. Transport and
// malformed-response failures are logged and yield an empty result.
func (s *StatsService) FetchPage(ctx context.Context, conf domain.Configuration) []domain.HeroStatsUpload {
	stats, err := s.Fetch(ctx, conf)
	if err != nil {
		return nil
	}
	return stats
}

// Fetch is FetchPage with the failure exposed, for callers that retry.
func (s *StatsService) Fetch(ctx context.Context, conf domain.Configuration) ([]domain.HeroStatsUpload, error) {
	log := s.logger.With().
		Str("platform", conf.Platform).
		Str("region", conf.Region).
		Str("gamemode", conf.Gamemode).
		Str("map", conf.Map).
		Str("tier", conf.Tier).
		Logger()

	url := s.stats.BuildURL(conf)
	log.Info().Str("url", url).Msg("fetching hero stats")

	env, err := s.stats.GetRates(ctx, conf)
	switch {
	case errors.Is(err, api.ErrMalformedResponse):
		log.Error().Err(err).Str("url", url).Msg("invalid API response structure")
		return nil, err
	case err != nil:
		log.Error().Err(err).Str("url", url).Msg("API request failed")
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}

	if len(env.Rates) == 0 {
		log.Warn().Str("url", url).Msg("no hero rate data returned")
		return nil, nil
	}

	stats := s.transform(log, env, conf)
	log.Info().Int("count", len(stats)).Int("rows", len(env.Rates)).Msg("extracted hero stats")
	return stats, nil
}

func (s *StatsService) transform(log zerolog.Logger, env *api.StatsEnvelope, conf domain.Configuration) []domain.HeroStatsUpload {
	stats := make([]domain.HeroStatsUpload, 0, len(env.Rates))
	for i, raw := range env.Rates {
		rate, err := api.DecodeHeroRate(raw)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping hero row")
			continue
		}
		stats = append(stats, ToUpload(rate, conf))
	}
	return stats
}

func ToUpload(rate api.HeroRate, conf domain.Configuration) domain.HeroStatsUpload {
	return domain.HeroStatsUpload{
		HeroID:   strings.ToLower(rate.ID),
		PickRate: rate.Cells.PickRate,
		WinRate:  rate.Cells.WinRate,
		Region:   strings.ToLower(conf.Region),
		Platform: strings.ToLower(conf.Platform),
		Gamemode: strings.ToLower(conf.Gamemode),
		Map:      strings.ToLower(conf.Map),
		MapType:  maps.Type(conf.Map),
		Tier:     strings.ToLower(conf.Tier),
	}
}
