package main

import (
	"context"
	"database/sql"
	"os"

	"duel-tracker/internal/console"
	"duel-tracker/internal/constants"
	fxmodules "duel-tracker/internal/fx"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.StopTimeout(constants.ShutdownTimeout),
		fx.Invoke(runConsole),
	).Run()
}

func runConsole(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	trackerConsole *console.TrackerConsole,
	db *sql.DB,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				logger.Info().Msg("console starting")
				if err := trackerConsole.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
					logger.Error().Err(err).Msg("console failed")
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Warn().Err(err).Msg("shutdown request failed")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info().Msg("shutting down console")
			cancel()

			drainCtx, cancelDrain := context.WithTimeout(stopCtx, constants.ConsoleDrainTimeout)
			defer cancelDrain()

			select {
			case <-done:
			case <-drainCtx.Done():
				// stdin reads can't be interrupted; leave the goroutine behind
				logger.Debug().Msg("console still waiting on input")
			}

			if db != nil {
				if err := db.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing database connection")
					return err
				}
			}
			logger.Info().Msg("console stopped")
			return nil
		},
	})
}
