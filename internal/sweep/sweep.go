package sweep

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"ow2stats/internal/api"
	"ow2stats/internal/config"
	"ow2stats/internal/constants"
	"ow2stats/internal/domain"
	"ow2stats/internal/service"

	"github.com/rs/zerolog"
)

type Fetcher interface {
	Fetch(ctx context.Context, conf domain.Configuration) ([]domain.HeroStatsUpload, error)
}

type Uploader interface {
	UploadBatch(ctx context.Context, records []domain.HeroStatsUpload)
}

type Options struct {
	RetryAttempts int
	RetryDelay    time.Duration
	RateLimitMin  time.Duration
	RateLimitMax  time.Duration
}

type Report struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
}

type Driver struct {
	configurations []domain.Configuration
	opts           Options
	fetcher        Fetcher
	uploader       Uploader
	logger         zerolog.Logger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(lo, hi time.Duration) time.Duration
}

func NewDriver(cfg *config.Config, stats *service.StatsService, backend *api.BackendClient, logger zerolog.Logger) *Driver {
	minDelay, maxDelay := cfg.RateLimitBounds()
	opts := Options{
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelayDuration(),
		RateLimitMin:  minDelay,
		RateLimitMax:  maxDelay,
	}
	return newDriver(Configurations(cfg), opts, stats, backend, logger)
}

func newDriver(confs []domain.Configuration, opts Options, fetcher Fetcher, uploader Uploader, logger zerolog.Logger) *Driver {
	return &Driver{
		configurations: confs,
		opts:           opts,
		fetcher:        fetcher,
		uploader:       uploader,
		logger:         logger,
		sleep:          sleepContext,
		jitter:         uniform,
	}
}

// Configurations enumerates platform × region × gamemode × tier × map in
// declaration order. Tiers other than "All" only apply to competitive.
func Configurations(cfg *config.Config) []domain.Configuration {
	var confs []domain.Configuration
	for _, platform := range cfg.Platforms {
		for _, region := range cfg.Regions {
			for _, gamemode := range cfg.Gamemodes {
				tiers := []string{constants.AllTiers}
				if strings.EqualFold(gamemode, constants.Competitive) {
					tiers = cfg.Tiers
				}
				for _, tier := range tiers {
					for _, m := range cfg.Maps {
						confs = append(confs, domain.Configuration{
							Platform: platform,
							Region:   region,
							Gamemode: gamemode,
							Map:      m,
							Tier:     tier,
						})
					}
				}
			}
		}
	}
	return confs
}

// Run processes every configuration once, in order. It only returns an error
// when ctx is cancelled; the report then covers the configurations finished
// so far.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	report := Report{Total: len(d.configurations)}
	d.logger.Info().Int("configurations", report.Total).Msg("starting sweep")

	for i, conf := range d.configurations {
		state, err := d.process(ctx, conf)
		if err != nil {
			d.logger.Info().Int("index", i).Interface("report", report).Msg("sweep interrupted")
			return report, err
		}

		switch state {
		case Succeeded:
			report.Completed++
		case Failed:
			report.Failed++
		case Skipped:
			report.Skipped++
		}

		if err := d.sleep(ctx, d.jitter(d.opts.RateLimitMin, d.opts.RateLimitMax)); err != nil {
			d.logger.Info().Int("index", i).Interface("report", report).Msg("sweep interrupted")
			return report, err
		}
	}

	d.logger.Info().
		Int("total", report.Total).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("sweep completed")
	return report, nil
}

// process drives one configuration to a terminal state. A non-nil error
// means ctx was cancelled.
func (d *Driver) process(ctx context.Context, conf domain.Configuration) (State, error) {
	log := d.logger.With().Interface("configuration", conf).Logger()

	state := Pending
	attempt := 0
	var lastErr error
	for !state.Terminal() {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		switch state {
		case Attempting:
			attempt++
			lastErr = d.attempt(ctx, conf)
			if lastErr != nil && ctx.Err() != nil {
				return state, ctx.Err()
			}
			if lastErr != nil {
				log.Warn().Err(lastErr).Int("attempt", attempt).Int("max_attempts", d.opts.RetryAttempts).Msg("attempt failed")
			}
		case Retrying:
			if err := d.sleep(ctx, d.opts.RetryDelay); err != nil {
				return state, err
			}
		}

		next := Next(state, attempt, d.opts.RetryAttempts, lastErr)
		log.Debug().Stringer("from", state).Stringer("to", next).Int("attempt", attempt).Msg("configuration state")
		state = next
	}

	if state == Failed {
		log.Error().Err(lastErr).Int("attempts", attempt).Msg("configuration failed")
	}
	return state, nil
}

func (d *Driver) attempt(ctx context.Context, conf domain.Configuration) error {
	stats, err := d.fetcher.Fetch(ctx, conf)
	if err != nil {
		return err
	}
	d.uploader.UploadBatch(ctx, stats)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func uniform(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}
