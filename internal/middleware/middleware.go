package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const CommandIDKey contextKey = "command_id"

// Command is one parsed console line.
type Command struct {
	Name string
	Args string
}

type Handler func(ctx context.Context, cmd Command) error

// CommandID tags every dispatched command with a fresh id, puts an id scoped
// logger into the context and logs start and completion.
func CommandID(logger zerolog.Logger) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) error {
			start := time.Now()

			commandID := GetCommandID(ctx)
			if commandID == "" {
				commandID = uuid.New().String()
			}

			ctx = context.WithValue(ctx, CommandIDKey, commandID)

			loggerWithID := logger.With().Str("command_id", commandID).Logger()
			ctx = loggerWithID.WithContext(ctx)

			loggerWithID.Debug().
				Str("command", cmd.Name).
				Msg("command started")

			err := next(ctx, cmd)

			duration := time.Since(start)
			event := loggerWithID.Info()
			if err != nil {
				event = loggerWithID.Warn().Err(err)
			}
			event.
				Str("command", cmd.Name).
				Int64("duration_ms", duration.Milliseconds()).
				Dur("duration", duration).
				Msg("command completed")

			return err
		}
	}
}

func GetCommandID(ctx context.Context) string {
	if id, ok := ctx.Value(CommandIDKey).(string); ok {
		return id
	}
	return ""
}
