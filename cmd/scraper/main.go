package main

import (
	"context"
	"errors"
	"fmt"

	fxmodules "ow2stats/internal/fx"
	"ow2stats/internal/sweep"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.ScraperModule,
		fx.Invoke(runSweep),
	).Run()
}

// runSweep starts one sweep when the app starts and shuts the app down when
// it finishes. An interrupt cancels the sweep at its next wait point.
func runSweep(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	driver *sweep.Driver,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				code := 0
				defer func() {
					if ctx.Err() != nil {
						// already stopping
						return
					}
					if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
						logger.Warn().Err(err).Msg("shutdown request failed")
					}
				}()
				defer func() {
					if r := recover(); r != nil {
						logger.Error().Err(fmt.Errorf("%v", r)).Msg("scraping failed")
						code = 1
					}
				}()

				logger.Info().Msg("starting Overwatch statistics scraping")
				_, err := driver.Run(ctx)
				if errors.Is(err, context.Canceled) {
					logger.Info().Msg("scraping interrupted by user")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
