package logger

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New logs to stderr so the console's stdout only carries user output.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger
}

// ApplyLevel sets the process wide minimum level, e.g. "debug" or "warn".
func ApplyLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

var Module = fx.Provide(New)
